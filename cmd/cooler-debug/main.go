package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coldloop/cooler-controller/db"
	"github.com/coldloop/cooler-controller/internal/model"
)

func main() {
	var dbPath, command, channel, key, value string
	flag.StringVar(&dbPath, "db", "data/cooler.db", "Path to the SQLite database file")
	flag.StringVar(&command, "cmd", "", "Command to run: list-profiles, show-current, clear-current, set-setting")
	flag.StringVar(&channel, "channel", "", "Channel for current-profile commands (fan, pump)")
	flag.StringVar(&key, "key", "", "Setting key for set-setting")
	flag.StringVar(&value, "value", "", "Setting value for set-setting")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of cooler-debug:")
		fmt.Println("  -db string\tPath to the SQLite database file (default 'data/cooler.db')")
		fmt.Println("  -cmd string\tCommand to run: list-profiles, show-current, clear-current, set-setting")
		fmt.Println("  -channel string\tChannel for current-profile commands (fan, pump)")
		fmt.Println("  -key string\tSetting key for set-setting")
		fmt.Println("  -value string\tSetting value for set-setting")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "list-profiles":
		err = db.ListProfilesCLI(dbPath)
	case "show-current":
		err = requireChannel(channel, func(ch model.Channel) error {
			return db.ShowCurrentCLI(dbPath, ch)
		})
	case "clear-current":
		err = requireChannel(channel, func(ch model.Channel) error {
			return db.ClearCurrentCLI(dbPath, ch)
		})
	case "set-setting":
		if key == "" {
			fmt.Println("Error: setting key is required")
			os.Exit(1)
		}
		err = db.SetSettingCLI(dbPath, key, value)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
	fmt.Printf("Command %s completed successfully\n", command)
}

func requireChannel(raw string, run func(model.Channel) error) error {
	ch := model.Channel(raw)
	if !ch.Valid() {
		return fmt.Errorf("invalid channel %q (want fan or pump)", raw)
	}
	return run(ch)
}
