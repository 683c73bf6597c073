package commands

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/gerunddev/creolewiki/internal/styles"
)

const serviceName = "creolewiki-watch"

var launchdPlist = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.{{.Name}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.Exec}}</string>
		<string>watch</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/{{.Name}}.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/{{.Name}}.err.log</string>
</dict>
</plist>
`))

var systemdUnit = template.Must(template.New("unit").Parse(`[Unit]
Description=creolewiki - publish the wiki whenever pages change
After=network.target

[Service]
Type=simple
ExecStart={{.Exec}} watch
Restart=always
RestartSec=10

[Install]
WantedBy=default.target
`))

// service describes the service file that runs "creolewiki watch"
type service struct {
	Name    string
	Exec    string
	Path    string
	enable  []string
	disable []string
}

// serviceFor returns the service definition for an operating system
func serviceFor(goos, home, execPath string) (*service, error) {
	s := &service{Name: serviceName, Exec: execPath}
	switch goos {
	case "darwin":
		s.Path = filepath.Join(home, "Library", "LaunchAgents", "com."+serviceName+".plist")
		s.enable = []string{"launchctl load " + s.Path}
		s.disable = []string{"launchctl unload " + s.Path}
	case "linux":
		s.Path = filepath.Join(home, ".config", "systemd", "user", serviceName+".service")
		s.enable = []string{
			"systemctl --user daemon-reload",
			"systemctl --user enable " + serviceName + ".service",
			"systemctl --user start " + serviceName + ".service",
		}
		s.disable = []string{
			"systemctl --user stop " + serviceName + ".service",
			"systemctl --user disable " + serviceName + ".service",
		}
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
	return s, nil
}

// Content renders the service file
func (s *service) Content(goos string) (string, error) {
	tmpl := systemdUnit
	if goos == "darwin" {
		tmpl = launchdPlist
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render service file: %w", err)
	}
	return buf.String(), nil
}

// Install generates a service file that keeps "creolewiki watch" running
func Install() {
	fmt.Println(styles.TitleStyle.Render("Creole Wiki Install"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fail("Failed to get home directory", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		fail("Failed to get executable path", err)
	}

	svc, err := serviceFor(runtime.GOOS, home, execPath)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		fmt.Println("Supported platforms: macOS (darwin), Linux")
		os.Exit(1)
	}
	content, err := svc.Content(runtime.GOOS)
	if err != nil {
		fail("Error", err)
	}

	if err := os.MkdirAll(filepath.Dir(svc.Path), 0755); err != nil {
		fail("Failed to create service directory", err)
	}
	if err := os.WriteFile(svc.Path, []byte(content), 0644); err != nil {
		fail("Failed to write service file", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file created: " + svc.Path))
	fmt.Println()
	fmt.Println("To enable the service:")
	for _, c := range svc.enable {
		fmt.Println(styles.DimStyle.Render("  " + c))
	}
	fmt.Println()
	fmt.Println("To disable the service:")
	for _, c := range svc.disable {
		fmt.Println(styles.DimStyle.Render("  " + c))
	}
}

// Uninstall stops the service and removes its file
func Uninstall() {
	fmt.Println(styles.TitleStyle.Render("Creole Wiki Uninstall"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fail("Failed to get home directory", err)
	}

	svc, err := serviceFor(runtime.GOOS, home, "")
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	if _, err := os.Stat(svc.Path); os.IsNotExist(err) {
		fmt.Println(styles.WarningStyle.Render("⚠ Service file not found: " + svc.Path))
		fmt.Println("Nothing to uninstall.")
		return
	}

	// Stop the service first; it may not be loaded
	fmt.Println("Attempting to stop service...")
	for _, c := range svc.disable {
		if err := runShell(c); err != nil {
			fmt.Println(styles.WarningStyle.Render("⚠ " + c + ": " + err.Error()))
		}
	}

	if err := os.Remove(svc.Path); err != nil {
		fail("Failed to remove service file", err)
	}
	if runtime.GOOS == "linux" {
		if err := runShell("systemctl --user daemon-reload"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload systemd daemon: %v\n", err)
		}
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file removed: " + svc.Path))
}

func runShell(command string) error {
	return exec.Command("sh", "-c", command).Run()
}
