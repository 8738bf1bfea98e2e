// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
noteclient is a local-first client for a note-based ledger.

It follows the chain of a ledger node, authenticating every block header
against a locally maintained Merkle Mountain Range over the chain, and decides
for every note addressed to the client which tracked accounts can consume it
and from which block on.

The default options are sane for most users.  The following section provides a
usage overview which enumerates the flags.  The long form of all of these
options (except -C) can be specified in a configuration file that is
automatically parsed when noteclient starts up.  By default, the configuration
file is located at ~/.noteclient/noteclient.conf on POSIX-style operating
systems and %LOCALAPPDATA%\noteclient\noteclient.conf on Windows.  The -C
(--configfile) flag, as shown below, can be used to override this location.

Usage:

	noteclient [OPTIONS]

Application Options:

	-V, --version          Display version information and exit
	-A, --appdata=         Path to application home directory
	-C, --configfile=      Path to configuration file
	-b, --datadir=         Directory to store data
	    --logdir=          Directory to log output
	-d, --debuglevel=      Logging level for all subsystems {trace, debug,
	                       info, warn, error, critical} -- You may also
	                       specify <subsystem>=<level>,<subsystem2>=<level>,...
	                       to set the log level for individual subsystems --
	                       Use show to list available subsystems (info)
	    --nofilelogging    Disable file logging
	    --logmaxrolls=     Maximum number of rolled log files to keep (3)
	-c, --rpcconnect=      Hostname/IP and port of the ledger node RPC server
	                       (localhost:57291)
	-u, --rpcuser=         Username for RPC connections
	-P, --rpcpass=         Password for RPC connections
	    --rpccert=         File containing the certificate of the ledger node
	    --notls            Disable TLS for the RPC connection
	    --proxy=           Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)
	    --proxyuser=       Username for proxy server
	    --proxypass=       Password for proxy server
	    --syncinterval=    Time between sync rounds with the ledger node (10s)
	    --screenerworkers= Maximum number of accounts checked concurrently when
	                       screening a note (4)
	    --headercachesize= Number of block headers cached in memory (1024)
	    --importaccount=   Import and track the serialized account stored in
	                       the file; may be specified multiple times
	    --notetag=         Follow notes with the tag in addition to those of
	                       tracked accounts; may be specified multiple times
	    --removenotetag=   Stop following notes with the tag; may be specified
	                       multiple times
	    --importnote=      Import the serialized note stored in the file when a
	                       tracked account can consume it; may be specified
	                       multiple times
	    --authblock=       Authenticate and track the historical block with the
	                       number once the local chain includes it; may be
	                       specified multiple times

Help Options:

	-h, --help           Show this help message
*/
package main
