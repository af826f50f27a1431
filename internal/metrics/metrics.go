package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EncryptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filecrypt",
		Name:      "encrypt_total",
		Help:      "Total encryption requests by mode.",
	}, []string{"mode"})
	DecryptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filecrypt",
		Name:      "decrypt_total",
		Help:      "Total symmetric decryption requests.",
	})
	KeygenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filecrypt",
		Name:      "keygen_total",
		Help:      "Total RSA keypair generations.",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filecrypt",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})
	CryptoSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "filecrypt",
		Name:      "crypto_seconds",
		Help:      "Duration of cryptographic operations.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(EncryptTotal, DecryptTotal, KeygenTotal, RateLimitedTotal, CryptoSeconds)
}
