package config

// ResolveUser returns the account that per-user stages act on.
//
// Precedence: --user flag, HOSTPREP_USER, the config file's user, then
// SUDO_USER (the account that invoked sudo). An empty result means no
// user could be determined.
func (c *Config) ResolveUser(getenv func(string) string) string {
	if c.UserOverride != "" {
		return c.UserOverride
	}
	if v := getenv(EnvUser); v != "" {
		return v
	}
	if c.User != "" {
		return c.User
	}
	return getenv(EnvSudoUser)
}
