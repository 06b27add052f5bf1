// Package main provides the entry point for the CT console application.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"ct-console/internal/app"
	"ct-console/internal/exam"
	"ct-console/internal/storage"
	"ct-console/internal/version"
	"ct-console/ui/console"
	"ct-console/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "CT Console"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	catalogPath := flag.String("catalog", "", "Path to a case catalog YAML file (default: built-in demo catalog)")
	dataDir := flag.String("data", "", "Directory for persisted planning data")
	flag.Parse()

	appPrefs := prefs.Load()

	catalog := exam.DefaultCatalog()
	if *catalogPath != "" {
		loaded, err := exam.LoadCatalog(*catalogPath)
		if err != nil {
			log.Printf("Failed to load catalog %s: %v (using built-in)", *catalogPath, err)
		} else {
			catalog = loaded
		}
	}

	dir := *dataDir
	if dir == "" {
		dir = appPrefs.String(prefs.KeyDataDir, defaultDataDir())
	}
	store := storage.NewStore(dir)
	log.Printf("Planning data: %s", store.Dir())

	a := fyneapp.New()
	a.Settings().SetTheme(&app.ConsoleTheme{})

	// Background completions (scout acquisition, planning persistence,
	// reconstruction) post back onto the event loop; every state and
	// workflow mutation then runs on the one UI thread.
	state := app.NewState(catalog, store, fyne.Do)

	win := console.New(a, state, appPrefs)
	win.ShowAndRun()
}

// defaultDataDir places planning files next to the preferences.
func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "ct-console", "plans")
}
