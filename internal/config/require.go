package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate terminates the process when a required setting is absent.
func (c *Config) Validate() {
	MustNonEmpty(c.DATABASE_URL, "DATABASE_URL")
	MustNonEmpty(c.JWT_SECRET, "JWT_SECRET")
	if c.HASH_SALT_LENGTH == 0 || c.HASH_KEY_LENGTH == 0 || c.HASH_MEMORY_KIB == 0 ||
		c.HASH_TIME_COST == 0 || c.HASH_PARALLELISM == 0 {
		log.Fatalf("hash parameters must all be non-zero")
	}
}
