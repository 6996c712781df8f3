package config

import "time"

// Default file names searched when no --config flag is given.
var DefaultConfigFiles = []string{"hostprep.yaml", "hostprep.yml", "/etc/hostprep/hostprep.yaml"}

// Environment variables consulted when resolving the target user.
const (
	EnvUser     = "HOSTPREP_USER"
	EnvSudoUser = "SUDO_USER"
)

const (
	DefaultLocale        = "en_US.UTF-8"
	DefaultCharset       = "UTF-8"
	DefaultTimezone      = "UTC"
	DefaultLocaleGenFile = "/etc/locale.gen"

	DefaultOhMyZshURL = "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh"
	DefaultRustupURL  = "https://sh.rustup.rs"

	DefaultClickHouseKeyURL  = "https://packages.clickhouse.com/rpm/lts/repodata/repomd.xml.key"
	DefaultClickHouseKeyring = "/usr/share/keyrings/clickhouse-keyring.gpg"
	DefaultClickHouseRepo    = "https://packages.clickhouse.com/deb"
	DefaultClickHouseSource  = "/etc/apt/sources.list.d/clickhouse.list"

	DefaultRustEnvLine = `. "$HOME/.cargo/env"`

	DefaultDownloadTimeout = 2 * time.Minute
	DefaultSSHPort         = 22
)
