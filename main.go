// Command slotsnap evaluates a scene script, replays its probes through a
// slot-snapping placement hologram and prints the results as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/slotsnap/pkg/snap"
)

func main() {
	withMesh := flag.Bool("mesh", false, "also mesh the final scene and report mesh stats")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-mesh] scene.snap\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(flag.Arg(0), *withMesh))
}

// run returns the process exit code so deferred log files are closed.
func run(path string, withMesh bool) int {
	cfg, err := LoadConfig()
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}

	ops, closeOps, err := openLog(cfg.OpsLog)
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}
	defer closeOps()
	diag, closeDiag, err := openLog(cfg.DiagLog)
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}
	defer closeDiag()
	snap.SetLogWriters(ops, diag)

	source, err := os.ReadFile(path)
	if err != nil {
		log.Printf("read script: %v", err)
		return 2
	}

	result := NewApp(cfg).Run(string(source), withMesh)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Printf("encode result: %v", err)
		return 1
	}
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}
