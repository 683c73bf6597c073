package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/creolewiki/internal/commands"
	"github.com/gerunddev/creolewiki/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "render":
		commands.Render(os.Args[2:])
	case "publish":
		commands.Publish(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "status":
		commands.Status()
	case "diff":
		commands.Diff(os.Args[2:])
	case "links":
		commands.Links(os.Args[2:])
	case "macros":
		commands.Macros()
	case "browse", "pages":
		commands.Browse()
	case "install":
		commands.Install()
	case "uninstall":
		commands.Uninstall()
	case "version", "-v", "--version":
		fmt.Printf("creolewiki v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`creolewiki - Render and publish a Creole wiki

Usage:
  creolewiki <command> [options]

Commands:
  render      Render a page or markup file to stdout (--markdown for Markdown)
  publish     Export every page as static HTML (--force to republish all)
  watch       Publish on an interval until interrupted
  status      Show what the next publish would change
  diff        Diff the renderings of two pages, revisions or files
  links       List the links of a page and where they resolve
  macros      List the available macros
  browse      Browse and preview all pages
  install     Generate a service file running watch at login
  uninstall   Remove the service file
  version     Show version information
  help        Show this help message

Examples:
  creolewiki render FrontPage
  creolewiki render --markdown notes.creole
  creolewiki publish
  creolewiki watch --interval 1m
  creolewiki diff Sandbox@1700000000 Sandbox
  creolewiki diff --format markdown old.creole new.creole
  creolewiki links FrontPage
  creolewiki browse
  creolewiki install

Configuration:
  Config file: %s
  State file:  %s
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
