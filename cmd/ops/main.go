package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/migueltaller/Commagra-Planing/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backup":
		if err := cmdBackup(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "backup failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	case "drill":
		if err := cmdDrill(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "drill failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		*out = filepath.Join("backups", "commagra-"+archiveStamp()+".tar.gz")
	}

	if err := ops.Snapshot(*dataDir, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.Restore(*archive, *target)
}

func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", "backups/drill", "scratch directory for the drill")
	if err := fs.Parse(args); err != nil {
		return err
	}

	archive, err := ops.Drill(*dataDir, *workDir, "commagra-"+archiveStamp())
	if err != nil {
		return err
	}
	fmt.Println("drill ok:", archive)
	return nil
}

// archiveStamp combines a UTC timestamp with a short random suffix so two
// drills in the same second cannot collide.
func archiveStamp() string {
	ts := time.Now().UTC().Format("20060102T150405Z")
	suffix := gonanoid.MustGenerate("abcdefghijklmnopqrstuvwxyz0123456789", 4)
	return ts + "-" + suffix
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  ops backup  [-data-dir DIR] [-out FILE]
  ops restore -archive FILE [-target-dir DIR]
  ops drill   [-data-dir DIR] [-work-dir DIR]`)
}
