/*
Grammarkit-registry starts a grammarkit grammar registry server and begins
listening for HTTP requests.

Usage:

	grammarkit-registry [flags]
	grammarkit-registry [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests as described in
server.Server and responds using a small JSON REST protocol. By default it
listens on :8080; this can be changed with the --listen/-l flag or the
GRAMMARKIT_LISTEN_ADDRESS environment variable.

If a JWT token secret is not given, one is generated randomly at startup. As
a consequence, in this mode of operation all tokens become invalid as soon
as the server shuts down; this is suitable for testing, but a secret must be
given via flag, environment variable, or config file for production use.

The flags are:

	-v, --version
		Give the current version of grammarkit and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Defaults to the value of environment
		variable GRAMMARKIT_LISTEN_ADDRESS, and if that is not given, to the
		config file's listen_addr, and if that is not given, to ":8080".

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Defaults to the
		value of environment variable GRAMMARKIT_TOKEN_SECRET, then the
		config file's jwt_secret. If none is given, a random secret is
		generated.

	-d, --data-dir DIR
		Directory the sqlite registry database lives in. Defaults to the
		config file's storage_dir, or "." if that is not given.

	-c, --config FILE
		A TOML config file. Defaults to "grammarkit.toml"; it is not an
		error for this file to be missing.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/grammarkit/internal/config"
	"github.com/dekarrin/grammarkit/internal/version"
	"github.com/dekarrin/grammarkit/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "GRAMMARKIT_LISTEN_ADDRESS"
	EnvSecret = "GRAMMARKIT_TOKEN_SECRET"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of grammarkit and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDataDir = pflag.StringP("data-dir", "d", "", "Directory the sqlite registry database lives in.")
	flagConfig  = pflag.StringP("config", "c", "grammarkit.toml", "A TOML config file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: load config: %s\n", err)
		os.Exit(1)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = cfg.ListenAddr
	}

	dataDir := *flagDataDir
	if dataDir == "" {
		dataDir = cfg.StorageDir
	}
	if err := os.MkdirAll(dataDir, 0770); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not build data directory: %s\n", err)
		os.Exit(1)
	}

	secret := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secret = *flagSecret
	}
	if secret == "" {
		secret = cfg.JWTSecret
	}

	var tokSecret []byte
	if secret != "" {
		tokSecret = []byte(secret)
		for len(tokSecret) < 32 {
			tokSecret = append(tokSecret, tokSecret...)
		}
		if len(tokSecret) > 64 {
			tokSecret = tokSecret[:64]
		}
	} else {
		tokSecret = make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	}

	srv, err := server.New(dataDir, tokSecret)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err)
	}
	defer srv.Close()

	if _, err := srv.CreateCredential(context.Background(), "admin", "password"); err != nil {
		log.Printf("WARN  could not create initial admin credential: %v", err)
	} else {
		log.Printf("INFO  added initial admin credential with password 'password'")
	}

	log.Printf("INFO  starting grammarkit registry %s...", version.Current)
	if err := srv.ListenAndServe(listenAddr); err != nil {
		log.Fatalf("FATAL server stopped: %s", err)
	}
}
