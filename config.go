// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrutil/v4"
	flags "github.com/jessevdk/go-flags"
	"github.com/notechain/noteclient/internal/blocksync"
	"github.com/notechain/noteclient/internal/version"
	"github.com/notechain/noteclient/sampleconfig"
	"github.com/notechain/noteclient/store"
	"github.com/notechain/noteclient/wire"
)

const (
	defaultConfigFilename  = "noteclient.conf"
	defaultDataDirname     = "data"
	defaultLogLevel        = "info"
	defaultLogDirname      = "logs"
	defaultLogFilename     = "noteclient.log"
	defaultLogMaxRolls     = 3
	defaultRPCHost         = "localhost"
	defaultRPCPort         = "57291"
	defaultRPCCertFilename = "node.cert"
	defaultSyncInterval    = blocksync.DefaultPollInterval
	defaultScreenerWorkers = 4
	defaultHeaderCacheSize = store.DefaultHeaderCacheSize
)

var (
	defaultHomeDir    = dcrutil.AppDataDir("noteclient", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultRPCCert    = filepath.Join(defaultHomeDir, defaultRPCCertFilename)
)

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not caused
// by the user.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// config defines the configuration options for noteclient.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	HomeDir     string `short:"A" long:"appdata" description:"Path to application home directory"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store data"`

	// Logging.
	LogDir        string `long:"logdir" description:"Directory to log output"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	LogMaxRolls   int    `long:"logmaxrolls" description:"Maximum number of rolled log files to keep"`

	// Node connection.
	RPCConnect string `short:"c" long:"rpcconnect" description:"Hostname/IP and port of the ledger node RPC server"`
	RPCUser    string `short:"u" long:"rpcuser" description:"Username for RPC connections"`
	RPCPass    string `short:"P" long:"rpcpass" default-mask:"-" description:"Password for RPC connections"`
	RPCCert    string `long:"rpccert" description:"File containing the certificate of the ledger node"`
	NoTLS      bool   `long:"notls" description:"Disable TLS for the RPC connection"`
	Proxy      string `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser  string `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass  string `long:"proxypass" default-mask:"-" description:"Password for proxy server"`

	// Sync and screening.
	SyncInterval    time.Duration `long:"syncinterval" description:"Time between sync rounds with the ledger node"`
	ScreenerWorkers int           `long:"screenerworkers" description:"Maximum number of accounts checked concurrently when screening a note"`
	HeaderCacheSize uint32        `long:"headercachesize" description:"Number of block headers cached in memory"`
	ImportAccounts  []string      `long:"importaccount" description:"Import and track the serialized account stored in the file; may be specified multiple times"`
	NoteTags        []string      `long:"notetag" description:"Follow notes with the tag in addition to those of tracked accounts; may be specified multiple times"`
	RemoveNoteTags  []string      `long:"removenotetag" description:"Stop following notes with the tag; may be specified multiple times"`
	ImportNotes     []string      `long:"importnote" description:"Import the serialized note stored in the file when a tracked account can consume it; may be specified multiple times"`
	AuthBlocks      []uint32      `long:"authblock" description:"Authenticate and track the historical block with the number once the local chain includes it; may be specified multiple times"`

	// The following options are set from the above.
	noteTags       []wire.NoteTag
	removeNoteTags []wire.NoteTag
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Nothing to do when no path is given.
	if path == "" {
		return path
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// normalizeAddress returns addr with the passed default port appended if
// there is not already a port specified.
func normalizeAddress(addr, defaultPort string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultPort)
	}
	return addr
}

// parseNoteTags parses note tags given as decimal or 0x-prefixed hexadecimal
// integers.
func parseNoteTags(strs []string) ([]wire.NoteTag, error) {
	tags := make([]wire.NoteTag, 0, len(strs))
	for _, s := range strs {
		tag, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid note tag %q: %w", s, err)
		}
		tags = append(tags, wire.NoteTag(tag))
	}
	return tags, nil
}

// createDefaultConfigFile creates a config file at the provided path using the
// commented sample configuration.
func createDefaultConfigFile(destPath string) error {
	// Create the destination directory if it does not exist.
	err := os.MkdirAll(filepath.Dir(destPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(sampleconfig.NoteClient()), 0600)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in noteclient functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig(appName string, args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		HomeDir:         defaultHomeDir,
		ConfigFile:      defaultConfigFile,
		DataDir:         defaultDataDir,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		LogMaxRolls:     defaultLogMaxRolls,
		RPCConnect:      defaultRPCHost,
		RPCCert:         defaultRPCCert,
		SyncInterval:    defaultSyncInterval,
		ScreenerWorkers: defaultScreenerWorkers,
		HeaderCacheSize: defaultHeaderCacheSize,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil, nil, errSuppressUsage(err.Error())
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		os.Exit(0)
	}

	// Update the home directory if specified.  Since the home directory is
	// updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != "" {
		cfg.HomeDir = cleanAndExpandPath(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			cfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		}
		if preCfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
		if preCfg.RPCCert == defaultRPCCert {
			cfg.RPCCert = filepath.Join(cfg.HomeDir,
				defaultRPCCertFilename)
		}
	}

	if preCfg.ConfigFile != defaultConfigFile {
		cfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	}

	// Create a default config file when one does not exist and the user did
	// not specify an override.
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(cfg.ConfigFile) {
		err := createDefaultConfigFile(cfg.ConfigFile)
		if err != nil {
			str := "failed to create default config file: %v"
			return nil, nil, fmt.Errorf(str, err)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			str := "error parsing config file %s: %v"
			return nil, nil, fmt.Errorf(str, cfg.ConfigFile, err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil, nil, errSuppressUsage(err.Error())
		}
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Clean and expand the paths.
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.RPCCert = cleanAndExpandPath(cfg.RPCCert)
	for i := range cfg.ImportAccounts {
		cfg.ImportAccounts[i] = cleanAndExpandPath(cfg.ImportAccounts[i])
	}
	for i := range cfg.ImportNotes {
		cfg.ImportNotes[i] = cleanAndExpandPath(cfg.ImportNotes[i])
	}

	// Create the data directory if it doesn't already exist.
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		str := "failed to create data directory: %v"
		return nil, nil, errSuppressUsage(fmt.Sprintf(str, err))
	}

	// Initialize log rotation.  After the log rotation has been
	// initialized, the logger variables may be used.
	if !cfg.NoFileLogging {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile, cfg.LogMaxRolls); err != nil {
			return nil, nil, errSuppressUsage(err.Error())
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, err
	}

	if cfg.SyncInterval <= 0 {
		str := "the sync interval must be positive -- parsed [%v]"
		return nil, nil, fmt.Errorf(str, cfg.SyncInterval)
	}
	if cfg.ScreenerWorkers < 1 {
		str := "the number of screener workers must be at least 1 -- " +
			"parsed [%d]"
		return nil, nil, fmt.Errorf(str, cfg.ScreenerWorkers)
	}
	if cfg.LogMaxRolls < 0 {
		str := "the number of rolled log files must not be negative -- " +
			"parsed [%d]"
		return nil, nil, fmt.Errorf(str, cfg.LogMaxRolls)
	}
	if cfg.ProxyUser != "" && cfg.Proxy == "" {
		return nil, nil, errors.New("the proxyuser option requires the " +
			"proxy option")
	}

	cfg.noteTags, err = parseNoteTags(cfg.NoteTags)
	if err != nil {
		return nil, nil, err
	}
	cfg.removeNoteTags, err = parseNoteTags(cfg.RemoveNoteTags)
	if err != nil {
		return nil, nil, err
	}

	// Add the default port to the RPC server address if needed.
	cfg.RPCConnect = normalizeAddress(cfg.RPCConnect, defaultRPCPort)
	if cfg.Proxy != "" {
		cfg.Proxy = normalizeAddress(cfg.Proxy, "1080")
	}

	return &cfg, remainingArgs, nil
}
