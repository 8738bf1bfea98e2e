// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/internal/blocksync"
	"github.com/notechain/noteclient/internal/version"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/rpcclient"
	"github.com/notechain/noteclient/screener"
	"github.com/notechain/noteclient/scriptcheck"
	"github.com/notechain/noteclient/store"
	"github.com/notechain/noteclient/wire"
)

// importAccounts stores the serialized accounts found in the provided files
// and follows the note tags derived from them.
func importAccounts(ctx context.Context, db *store.Store, paths []string) error {
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read account file: %w", err)
		}
		var acct wire.Account
		if err := acct.FromBytes(b); err != nil {
			return fmt.Errorf("unable to decode account file %s: %w", path,
				err)
		}
		if err := db.InsertAccount(ctx, &acct); err != nil {
			return err
		}
		if err := db.AddNoteTag(ctx, notes.TagForAccount(acct.ID)); err != nil {
			return err
		}
		ncliLog.Infof("Imported account %v", acct.ID)
	}
	return nil
}

// followNoteTags adds the note tags of every tracked account along with the
// configured extra tags to the tags followed during sync.
func followNoteTags(ctx context.Context, db *store.Store, extra []wire.NoteTag) error {
	ids, err := db.GetTrackedAccountIDs(ctx)
	if err != nil {
		return err
	}
	tags := make([]wire.NoteTag, 0, len(ids)+len(extra))
	for _, id := range ids {
		tags = append(tags, notes.TagForAccount(id))
	}
	tags = append(tags, extra...)
	for _, tag := range tags {
		if err := db.AddNoteTag(ctx, tag); err != nil {
			return err
		}
	}
	ncliLog.Infof("Tracking %d %s", len(ids), pickNoun(len(ids), "account",
		"accounts"))
	return nil
}

// unfollowNoteTags stops following the provided note tags during sync.
func unfollowNoteTags(ctx context.Context, db *store.Store, tags []wire.NoteTag) error {
	for _, tag := range tags {
		if err := db.RemoveNoteTag(ctx, tag); err != nil {
			return err
		}
		ncliLog.Infof("No longer following note tag %#x", uint32(tag))
	}
	return nil
}

// importNotes stores the serialized notes found in the provided files that a
// tracked account can consume.  Imported notes are not known to be committed
// until sync finds them in a block.
func importNotes(ctx context.Context, db *store.Store, noteScreener *screener.NoteScreener, paths []string) error {
	stored, err := db.GetInputNotes(ctx)
	if err != nil {
		return err
	}
	known := make(map[chainhash.Hash]struct{}, len(stored))
	for _, rec := range stored {
		known[rec.Note.ID()] = struct{}{}
	}

	recs := make([]*store.InputNoteRecord, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read note file: %w", err)
		}
		var note wire.Note
		if err := note.FromBytes(b); err != nil {
			return fmt.Errorf("unable to decode note file %s: %w", path, err)
		}
		if _, ok := known[note.ID()]; ok {
			ncliLog.Infof("Note %v is already tracked", note.ID())
			continue
		}
		consumability, err := noteScreener.CheckRelevance(ctx, &note)
		if err != nil {
			return fmt.Errorf("unable to screen note %v: %w", note.ID(), err)
		}
		if len(consumability) == 0 {
			ncliLog.Warnf("Not importing note %v: no tracked account can "+
				"consume it", note.ID())
			continue
		}
		ncliLog.Infof("Imported note %v: %v", note.ID(), consumability)
		known[note.ID()] = struct{}{}
		recs = append(recs, &store.InputNoteRecord{Note: &note})
	}
	if err := db.InsertInputNotes(ctx, recs); err != nil {
		return err
	}
	ncliLog.Infof("Tracking %d input %s", len(known), pickNoun(len(known),
		"note", "notes"))
	return nil
}

// authenticateBlocks authenticates and tracks the provided historical blocks.
// Blocks the local chain does not include yet are skipped.
func authenticateBlocks(ctx context.Context, syncer *blocksync.Syncer, blockNums []uint32) error {
	for _, blockNum := range blockNums {
		header, err := syncer.AuthenticateBlock(ctx, blockNum)
		if errors.Is(err, blocksync.ErrBlockNotInForest) {
			ncliLog.Warnf("Unable to authenticate block %d: %v", blockNum,
				err)
			continue
		}
		if err != nil {
			return fmt.Errorf("unable to authenticate block %d: %w",
				blockNum, err)
		}
		ncliLog.Infof("Authenticated block %d (commitment %v)", blockNum,
			header.Commitment())
	}
	return nil
}

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// connectNode establishes the RPC connection to the ledger node.
func connectNode(ctx context.Context, cfg *config) (*rpcclient.Client, error) {
	var certs []byte
	if !cfg.NoTLS {
		var err error
		certs, err = os.ReadFile(cfg.RPCCert)
		if err != nil {
			return nil, fmt.Errorf("unable to read RPC certificate: %w", err)
		}
	}
	return rpcclient.New(ctx, &rpcclient.ConnConfig{
		Host:         cfg.RPCConnect,
		Endpoint:     "ws",
		User:         cfg.RPCUser,
		Pass:         cfg.RPCPass,
		DisableTLS:   cfg.NoTLS,
		Certificates: certs,
		Proxy:        cfg.Proxy,
		ProxyUser:    cfg.ProxyUser,
		ProxyPass:    cfg.ProxyPass,
	})
}

// noteClientMain is the real main function for noteclient.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func noteClientMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	cfg, _, err := loadConfig(appName, os.Args[1:])
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()
	defer ncliLog.Info("Shutdown complete")

	// Show version and home dir at startup.
	ncliLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	ncliLog.Infof("Home dir: %s", cfg.HomeDir)
	if cfg.NoFileLogging {
		ncliLog.Info("File logging disabled")
	}

	// Load the database.
	db, err := store.Open(cfg.DataDir, cfg.HeaderCacheSize)
	if err != nil {
		ncliLog.Errorf("Unable to open the database: %v", err)
		return err
	}
	defer func() {
		ncliLog.Infof("Gracefully shutting down the database...")
		db.Close()
	}()

	if err := importAccounts(ctx, db, cfg.ImportAccounts); err != nil {
		ncliLog.Errorf("%v", err)
		return err
	}
	if err := followNoteTags(ctx, db, cfg.noteTags); err != nil {
		ncliLog.Errorf("%v", err)
		return err
	}
	if err := unfollowNoteTags(ctx, db, cfg.removeNoteTags); err != nil {
		ncliLog.Errorf("%v", err)
		return err
	}
	noteScreener := screener.New(db, scriptcheck.New(), &screener.Config{
		MaxConcurrency: cfg.ScreenerWorkers,
	})
	if err := importNotes(ctx, db, noteScreener, cfg.ImportNotes); err != nil {
		ncliLog.Errorf("%v", err)
		return err
	}

	// Return now if a shutdown signal was triggered.
	if shutdownRequested(ctx) {
		return nil
	}

	client, err := connectNode(ctx, cfg)
	if err != nil {
		ncliLog.Errorf("Unable to connect to %s: %v", cfg.RPCConnect, err)
		return err
	}
	defer func() {
		client.Shutdown()
		client.WaitForShutdown()
	}()

	syncer := blocksync.New(&blocksync.Config{
		Store:        db,
		RPC:          client,
		Screener:     noteScreener,
		PollInterval: cfg.SyncInterval,
	})

	// Historical blocks can only be authenticated once the local chain
	// includes them, so catch up with the node first.
	if len(cfg.AuthBlocks) > 0 {
		if _, err := syncer.SyncRound(ctx); err != nil {
			ncliLog.Warnf("Unable to sync: %v", err)
		}
		if err := authenticateBlocks(ctx, syncer, cfg.AuthBlocks); err != nil {
			ncliLog.Errorf("%v", err)
			return err
		}
	}

	// Run the syncer.  This will block until the context is canceled which
	// happens when the interrupt signal is received.
	if err := syncer.Run(ctx); err != nil {
		ncliLog.Errorf("Unable to sync: %v", err)
		return err
	}
	ncliLog.Infof("Synced to block %d", syncer.SyncHeight())
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := noteClientMain(); err != nil {
		os.Exit(1)
	}
}
