package testing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// FakeService is the state of a unit on a FakeHost.
type FakeService struct {
	Active  bool
	Enabled bool
}

// packageProvides maps Debian packages to the executables and units they ship.
var packageProvides = map[string]struct {
	binaries []string
	unit     string
}{
	"zsh":               {binaries: []string{"zsh"}},
	"postgresql":        {binaries: []string{"psql"}, unit: "postgresql"},
	"clickhouse-server": {binaries: []string{"clickhouse-server"}, unit: "clickhouse-server"},
	"clickhouse-client": {binaries: []string{"clickhouse-client"}},
	"sqlite3":           {binaries: []string{"sqlite3"}},
	"curl":              {binaries: []string{"curl"}},
	"git":               {binaries: []string{"git"}},
	"build-essential":   {binaries: []string{"gcc", "make"}},
	"locales":           {binaries: []string{"locale-gen"}},
}

// FakeHost simulates the parts of a Debian host that hostprep touches.
// All fields may be inspected by tests after a run.
type FakeHost struct {
	mu sync.Mutex

	UID      int
	Passwd   map[string]string
	Files    map[string][]byte
	Perms    map[string]fs.FileMode
	Owners   map[string]string
	Binaries map[string]string
	Packages map[string]bool
	Services map[string]*FakeService
	Locales  map[string]bool
	Timezone string

	// Links maps symbolic link paths to their targets. A link to a
	// directory applies to everything below it.
	Links map[string]string

	// RustComponents holds installed rustup components per user.
	RustComponents map[string]map[string]bool

	// RepoPackages are only installable once a source file mentions RepoURL.
	RepoPackages map[string]bool
	RepoURL      string

	// AutoStart makes newly installed units active and enabled, as Debian
	// maintainer scripts usually do.
	AutoStart bool

	// FailOn, when set, is consulted before every command. A non-nil
	// return fails the command with that error.
	FailOn func(cmd shell.Command) error

	// Commands records every command run, in order.
	Commands []shell.Command

	// Installs records each package passed to apt-get install.
	Installs []string

	// Scripts records installer scripts executed, by path.
	Scripts []string
}

var _ shell.Executor = (*FakeHost)(nil)

// NewFakeHost returns a freshly installed Debian host running as root with
// a commented-out locale.gen.
func NewFakeHost() *FakeHost {
	f := &FakeHost{
		Passwd:         map[string]string{"root": "root:x:0:0:root:/root:/bin/bash"},
		Files:          map[string][]byte{},
		Perms:          map[string]fs.FileMode{},
		Owners:         map[string]string{},
		Links:          map[string]string{},
		Binaries:       map[string]string{},
		Packages:       map[string]bool{},
		Services:       map[string]*FakeService{},
		Locales:        map[string]bool{},
		Timezone:       "Etc/UTC",
		RustComponents: map[string]map[string]bool{},
		RepoPackages:   map[string]bool{"clickhouse-server": true, "clickhouse-client": true},
		RepoURL:        "https://packages.clickhouse.com/deb",
	}
	for _, b := range []string{"sh", "apt-get", "systemctl", "runuser", "getent", "chsh", "id", "locale", "update-locale", "timedatectl", "grep", "mktemp", "chmod", "readlink"} {
		f.Binaries[b] = "/usr/bin/" + b
	}
	f.Files["/etc/locale.gen"] = []byte("# This file lists locales that you wish to have built.\n#\n# de_DE.UTF-8 UTF-8\n# en_GB.UTF-8 UTF-8\n# en_US.UTF-8 UTF-8\n")
	return f
}

// WithUser adds a login account with a bash shell.
func (f *FakeHost) WithUser(name, home string) *FakeHost {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid := 1000 + len(f.Passwd) - 1
	f.Passwd[name] = fmt.Sprintf("%s:x:%d:%d::%s:/bin/bash", name, uid, uid, home)
	return f
}

// WithUID sets the effective uid reported by id -u.
func (f *FakeHost) WithUID(uid int) *FakeHost {
	f.UID = uid
	return f
}

// Target implements shell.Executor.
func (f *FakeHost) Target() string {
	return "fake"
}

// ReadFile implements shell.Executor.
func (f *FakeHost) ReadFile(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[f.resolve(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements shell.Executor.
func (f *FakeHost) WriteFile(_ context.Context, name string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	name = f.resolve(name)
	if _, ok := f.Files[name]; !ok {
		f.Perms[name] = perm
	}
	f.Files[name] = append([]byte(nil), data...)
	return nil
}

// Exists implements shell.Executor. Directories exist if any file lives
// below them.
func (f *FakeHost) Exists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists(name), nil
}

func (f *FakeHost) exists(name string) bool {
	name = f.resolve(name)
	if _, ok := f.Files[name]; ok {
		return true
	}
	prefix := strings.TrimSuffix(name, "/") + "/"
	for p := range f.Files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Remove implements shell.Executor.
func (f *FakeHost) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Files, name)
	return nil
}

// File returns the content of name as a string.
func (f *FakeHost) File(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.Files[name])
}

// Ran reports whether a command whose display form starts with prefix ran.
func (f *FakeHost) Ran(prefix string) bool {
	return f.CountRan(prefix) > 0
}

// CountRan counts commands whose display form starts with prefix.
func (f *FakeHost) CountRan(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Commands {
		if strings.HasPrefix(strings.Join(append([]string{c.Name}, c.Args...), " "), prefix) {
			n++
		}
	}
	return n
}

// Mutations returns the commands that change host state, i.e. everything
// except the read-only probes.
func (f *FakeHost) Mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Commands {
		if !isProbe(c) {
			out = append(out, c.Display())
		}
	}
	return out
}

func isProbe(c shell.Command) bool {
	switch c.Name {
	case "id", "getent", "locale", "dpkg-query", "grep", "readlink":
		return true
	case "sh":
		if len(c.Args) > 0 && strings.HasPrefix(c.Args[0], "/tmp/") {
			return false
		}
		return !(len(c.Args) > 1 && c.Args[0] == "-c" && strings.Contains(c.Args[1], ">>"))
	case "systemctl":
		return len(c.Args) > 0 && strings.HasPrefix(c.Args[0], "is-")
	case "timedatectl":
		return len(c.Args) > 0 && c.Args[0] == "show"
	case "rustup":
		return len(c.Args) > 1 && c.Args[0] == "component" && c.Args[1] == "list"
	case "du":
		return true
	}
	if strings.HasSuffix(c.Name, "/rustup") {
		return len(c.Args) > 1 && c.Args[0] == "component" && c.Args[1] == "list"
	}
	for _, a := range c.Args {
		if a == "--version" {
			return true
		}
	}
	return false
}

// Run implements shell.Executor.
func (f *FakeHost) Run(_ context.Context, cmd shell.Command) (shell.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Commands = append(f.Commands, cmd)

	if f.FailOn != nil {
		if err := f.FailOn(cmd); err != nil {
			return shell.Result{ExitCode: 1}, err
		}
	}

	out, code := f.dispatch(cmd)
	res := shell.Result{Stdout: out, ExitCode: code}
	if code != 0 {
		return res, &shell.CommandError{Command: cmd, ExitCode: code, Output: out}
	}
	return res, nil
}

func (f *FakeHost) dispatch(cmd shell.Command) (string, int) {
	name := path.Base(cmd.Name)
	args := cmd.Args

	if len(args) == 1 && args[0] == "--version" {
		if f.resolves(cmd.Name, cmd.User) {
			return name + " 1.0.0\n", 0
		}
		return name + ": not found\n", 127
	}

	switch name {
	case "id":
		return fmt.Sprintf("%d\n", f.UID), 0
	case "getent":
		if len(args) == 2 && args[0] == "passwd" {
			if line, ok := f.Passwd[args[1]]; ok {
				return line + "\n", 0
			}
		}
		return "", 2
	case "sh":
		return f.runSh(cmd)
	case "apt-get":
		return f.runApt(args)
	case "systemctl":
		return f.runSystemctl(args)
	case "locale-gen":
		for _, l := range strings.Split(string(f.Files["/etc/locale.gen"]), "\n") {
			l = strings.TrimSpace(l)
			if l == "" || strings.HasPrefix(l, "#") {
				continue
			}
			loc, _, _ := strings.Cut(l, " ")
			f.Locales[normalize(loc)] = true
		}
		return "Generating locales...\n", 0
	case "locale":
		names := []string{"C", "C.utf8", "POSIX"}
		for l := range f.Locales {
			names = append(names, l)
		}
		sort.Strings(names)
		return strings.Join(names, "\n") + "\n", 0
	case "update-locale":
		if len(args) == 1 {
			f.Files["/etc/default/locale"] = []byte(args[0] + "\n")
		}
		return "", 0
	case "timedatectl":
		if len(args) >= 1 && args[0] == "show" {
			return f.Timezone + "\n", 0
		}
		if len(args) == 2 && args[0] == "set-timezone" {
			f.Timezone = args[1]
			return "", 0
		}
		return "", 1
	case "chsh":
		if len(args) == 3 && args[0] == "-s" {
			line, ok := f.Passwd[args[2]]
			if !ok {
				return "chsh: user does not exist\n", 1
			}
			fields := strings.Split(line, ":")
			fields[6] = args[1]
			f.Passwd[args[2]] = strings.Join(fields, ":")
			return "", 0
		}
		return "", 1
	case "grep":
		return f.runGrep(cmd)
	case "mktemp":
		return f.runMktemp(args)
	case "chmod":
		if len(args) != 2 {
			return "", 1
		}
		mode, err := strconv.ParseUint(args[0], 8, 32)
		if err != nil {
			return "chmod: invalid mode\n", 1
		}
		p := f.resolve(args[1])
		if _, ok := f.Files[p]; !ok {
			return "chmod: cannot access '" + args[1] + "'\n", 1
		}
		f.Perms[p] = fs.FileMode(mode)
		return "", 0
	case "readlink":
		if len(args) == 3 && args[0] == "-f" && args[1] == "--" {
			return f.resolve(args[2]) + "\n", 0
		}
		return "", 1
	case "rustup":
		return f.runRustup(cmd)
	case "du":
		return "4096\t/var/cache/apt/archives\n", 0
	case "dpkg-query":
		if len(args) == 0 {
			return "", 2
		}
		if f.Packages[args[len(args)-1]] {
			return "install ok installed", 0
		}
		return "dpkg-query: no packages found matching " + args[len(args)-1] + "\n", 1
	}

	if f.resolves(cmd.Name, cmd.User) {
		return "", 0
	}
	return name + ": command not found\n", 127
}

func (f *FakeHost) runSh(cmd shell.Command) (string, int) {
	args := cmd.Args
	if len(args) == 4 && (args[0] == "-c" || args[0] == "-lc") && args[1] == `command -v "$1"` {
		target := args[3]
		if args[0] == "-c" {
			if p, ok := f.Binaries[target]; ok {
				return p + "\n", 0
			}
			return "", 1
		}
		if f.resolves(target, cmd.User) {
			return target + "\n", 0
		}
		return "", 1
	}

	if len(args) == 4 && args[0] == "-c" && strings.Contains(args[1], ">>") {
		return f.appendAs(cmd.User, args[3], args[2])
	}

	if len(args) >= 1 && strings.HasPrefix(args[0], "/tmp/") {
		script := args[0]
		if _, ok := f.Files[script]; !ok {
			return "sh: cannot open " + script + "\n", 2
		}
		if !f.canRead(cmd.User, script) {
			return "sh: cannot open " + script + ": Permission denied\n", 2
		}
		f.Scripts = append(f.Scripts, script)
		home := f.home(cmd.User)
		switch {
		case strings.Contains(script, "oh-my-zsh"):
			f.Files[home+"/.oh-my-zsh/oh-my-zsh.sh"] = []byte("# oh-my-zsh\n")
			f.Owners[home+"/.oh-my-zsh"] = cmd.User
		case strings.Contains(script, "rustup"):
			for _, b := range []string{"rustc", "rustup", "cargo"} {
				f.Files[home+"/.cargo/bin/"+b] = []byte{}
			}
			f.Files[home+"/.cargo/env"] = []byte("export PATH=\"$HOME/.cargo/bin:$PATH\"\n")
			f.RustComponents[cmd.User] = map[string]bool{"rustc": true, "cargo": true}
		}
		return "installed\n", 0
	}
	return "", 0
}

func (f *FakeHost) runApt(args []string) (string, int) {
	var positional []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			positional = append(positional, a)
		}
	}
	if len(positional) == 0 {
		return "", 100
	}

	switch positional[0] {
	case "update", "upgrade", "autoremove", "clean":
		return "", 0
	case "install":
		for _, pkg := range positional[1:] {
			if f.RepoPackages[pkg] && !f.repoConfigured() {
				return "E: Unable to locate package " + pkg + "\n", 100
			}
		}
		for _, pkg := range positional[1:] {
			f.Installs = append(f.Installs, pkg)
			f.Packages[pkg] = true
			provides := packageProvides[pkg]
			for _, b := range provides.binaries {
				f.Binaries[b] = "/usr/bin/" + b
			}
			if provides.unit != "" {
				if _, ok := f.Services[provides.unit]; !ok {
					f.Services[provides.unit] = &FakeService{Active: f.AutoStart, Enabled: f.AutoStart}
				}
			}
		}
		return "", 0
	}
	return "E: Invalid operation " + positional[0] + "\n", 100
}

func (f *FakeHost) repoConfigured() bool {
	for p, data := range f.Files {
		if strings.HasPrefix(p, "/etc/apt/sources.list") && strings.Contains(string(data), f.RepoURL) {
			return true
		}
	}
	return false
}

func (f *FakeHost) runSystemctl(args []string) (string, int) {
	if len(args) == 0 {
		return "", 1
	}
	unit := args[len(args)-1]
	svc, ok := f.Services[unit]
	if !ok {
		if strings.HasPrefix(args[0], "is-") {
			return "", 4
		}
		return "Unit " + unit + " not found.\n", 5
	}

	switch args[0] {
	case "is-active":
		if svc.Active {
			return "", 0
		}
		return "", 3
	case "is-enabled":
		if svc.Enabled {
			return "", 0
		}
		return "", 1
	case "start":
		svc.Active = true
		return "", 0
	case "enable":
		svc.Enabled = true
		return "", 0
	}
	return "", 1
}

func (f *FakeHost) runRustup(cmd shell.Command) (string, int) {
	components, ok := f.RustComponents[cmd.User]
	if !ok {
		return "rustup: command not found\n", 127
	}
	args := cmd.Args
	switch {
	case len(args) >= 1 && args[0] == "update":
		return "stable unchanged\n", 0
	case len(args) >= 3 && args[0] == "component" && args[1] == "list":
		var names []string
		for c := range components {
			names = append(names, c+"-x86_64-unknown-linux-gnu")
		}
		sort.Strings(names)
		return strings.Join(names, "\n") + "\n", 0
	case len(args) >= 3 && args[0] == "component" && args[1] == "add":
		for _, c := range args[2:] {
			components[c] = true
		}
		return "", 0
	}
	return "", 1
}

func (f *FakeHost) runGrep(cmd shell.Command) (string, int) {
	args := cmd.Args
	if len(args) != 4 || args[0] != "-qxF" || args[1] != "--" {
		return "grep: unsupported arguments\n", 2
	}
	p := f.resolve(args[3])
	data, ok := f.Files[p]
	if !ok {
		return "grep: " + args[3] + ": No such file or directory\n", 2
	}
	if !f.canRead(cmd.User, p) {
		return "grep: " + args[3] + ": Permission denied\n", 2
	}
	for _, l := range strings.Split(string(data), "\n") {
		if l == args[2] {
			return "", 0
		}
	}
	return "", 1
}

// appendAs appends line to name with the permissions of user.
func (f *FakeHost) appendAs(user, name, line string) (string, int) {
	p := f.resolve(name)
	if !f.canWrite(user, p) {
		return "sh: cannot create " + name + ": Permission denied\n", 2
	}
	content, ok := f.Files[p]
	if !ok {
		f.Perms[p] = 0o644
		if user != "" {
			f.Owners[p] = user
		}
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}
	f.Files[p] = append(content, line+"\n"...)
	return "", 0
}

func (f *FakeHost) runMktemp(args []string) (string, int) {
	if len(args) != 1 {
		return "mktemp: unsupported arguments\n", 1
	}
	stem := strings.TrimRight(args[0], "X")
	width := len(args[0]) - len(stem)
	if width < 3 {
		return "mktemp: too few X's in template\n", 1
	}
	for n := 0; ; n++ {
		p := fmt.Sprintf("%s%0*d", stem, width, n)
		if _, ok := f.Files[p]; ok {
			continue
		}
		if _, ok := f.Links[p]; ok {
			continue
		}
		f.Files[p] = []byte{}
		f.Perms[p] = 0o600
		f.Owners[p] = "root"
		return p + "\n", 0
	}
}

// resolve follows Links until name no longer passes through one.
func (f *FakeHost) resolve(name string) string {
	for range 16 {
		next := name
		for link, target := range f.Links {
			if name == link {
				next = target
				break
			}
			if rest, ok := strings.CutPrefix(name, link+"/"); ok {
				next = target + "/" + rest
				break
			}
		}
		if next == name {
			return name
		}
		name = next
	}
	return name
}

// owner returns the recorded owner of a resolved path. Unrecorded files in
// a home directory belong to that home's account, everything else to root.
func (f *FakeHost) owner(p string) string {
	if o, ok := f.Owners[p]; ok {
		return o
	}
	for user := range f.Passwd {
		if user == "root" {
			continue
		}
		if home := f.home(user); strings.HasPrefix(p, home+"/") {
			return user
		}
	}
	return "root"
}

func (f *FakeHost) canWrite(user, p string) bool {
	if user == "" || user == "root" {
		return true
	}
	if _, ok := f.Files[p]; ok {
		return f.owner(p) == user
	}
	return strings.HasPrefix(p, f.home(user)+"/")
}

func (f *FakeHost) canRead(user, p string) bool {
	if f.canWrite(user, p) {
		return true
	}
	perm, ok := f.Perms[p]
	return !ok || perm&0o004 != 0
}

// resolves reports whether name is on PATH for user (or root when empty).
// A user's login PATH includes ~/.cargo/bin once rustup has installed it.
func (f *FakeHost) resolves(name, user string) bool {
	if path.IsAbs(name) {
		_, ok := f.Files[name]
		return ok || f.Binaries[path.Base(name)] == name
	}
	if _, ok := f.Binaries[name]; ok {
		return true
	}
	if user == "" {
		return false
	}
	home := f.home(user)
	_, ok := f.Files[home+"/.cargo/bin/"+name]
	return ok && strings.Contains(string(f.Files[home+"/.profile"]), ".cargo/env")
}

func (f *FakeHost) home(user string) string {
	if user == "" {
		user = "root"
	}
	fields := strings.Split(f.Passwd[user], ":")
	if len(fields) < 6 {
		return "/nonexistent"
	}
	return fields[5]
}

// Shell returns the login shell recorded for user.
func (f *FakeHost) Shell(user string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := strings.Split(f.Passwd[user], ":")
	if len(fields) < 7 {
		return ""
	}
	return fields[6]
}

// Service returns the state of unit, or nil.
func (f *FakeHost) Service(unit string) *FakeService {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Services[unit]
}

func normalize(locale string) string {
	lang, codeset, ok := strings.Cut(locale, ".")
	if !ok {
		return locale
	}
	return lang + "." + strings.ToLower(strings.ReplaceAll(codeset, "-", ""))
}

// ErrInjected is a convenience error for FailOn hooks.
var ErrInjected = errors.New("injected failure")
