package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/99designs/keyring"
	"github.com/google/shlex"
)

const keyringService = "eml2cal"

// resolveSecret obtains the password for a credentialed config section.
// Exactly one of the four sources is used, in this order of preference:
// a literal password, a command whose stdout is the password, an
// environment variable, or a key in the system keyring.
func resolveSecret(section, literal, command, envVar, keyringKey string) (string, error) {
	switch {
	case literal != "":
		return literal, nil
	case command != "":
		out, err := commandOutput(command)
		if err != nil {
			return "", fmt.Errorf("%s.password_cmd: %w", section, err)
		}
		return out, nil
	case envVar != "":
		v, ok := os.LookupEnv(envVar)
		if !ok {
			return "", fmt.Errorf("%s.password_env: %s is not set", section, envVar)
		}
		return v, nil
	case keyringKey != "":
		v, err := keyringSecret(keyringKey)
		if err != nil {
			return "", fmt.Errorf("%s.password_keyring: %w", section, err)
		}
		return v, nil
	}
	return "", fmt.Errorf("no password configured for %s", section)
}

// commandOutput runs a shell-style command line and returns its trimmed
// stdout.
func commandOutput(cmdline string) (string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return "", fmt.Errorf("parsing command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	out, err := exec.Command(argv[0], argv[1:]...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("running %q: %w: %s", cmdline, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("running %q: %w", cmdline, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func openKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  configDir + "keyring",
		FilePasswordFunc:         keyring.FixedStringPrompt("eml2cal keyring"),
		KeychainTrustApplication: true,
	})
}

// keyringSecret looks up a password stored in the system keyring under
// the eml2cal service.
func keyringSecret(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", fmt.Errorf("opening keyring: %w", err)
	}
	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("reading %q from keyring: %w", key, err)
	}
	return string(item.Data), nil
}
