package repository

// CacheRepository stores computed lead scores by key.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
