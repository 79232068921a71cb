package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"static-tls-server/server"
)

func main() {
	host := flag.String("host", "localhost", "host name to listen on")
	port := flag.Int("port", 3000, "port to listen on")
	root := flag.String("root", ".", "directory to serve")
	certFile := flag.String("cert", filepath.Join("certs", "server.crt"), "certificate chain (PEM)")
	keyFile := flag.String("key", filepath.Join("certs", "server.key"), "private key (PEM)")
	dirList := flag.Bool("dirlist", false, "list directories without an index.html instead of returning 404")
	flag.Parse()

	baseDir, err := filepath.Abs(*root)
	if err != nil {
		log.Fatalf("resolve root %q: %v", *root, err)
	}

	logger := log.New(os.Stdout, "https ", log.LstdFlags)
	srv, err := server.Start(server.Config{
		Host:     *host,
		Port:     *port,
		BaseDir:  baseDir,
		CertFile: *certFile,
		KeyFile:  *keyFile,
		DirList:  *dirList,
	}, logger)
	if err != nil {
		log.Fatalf("start https failure: %v", err)
	}

	fmt.Printf("Serving on %s\n", srv.URL())
	fmt.Println("Press Ctrl+C to stop")

	// Block until termination signal, then drain in-flight requests.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Printf("received signal %s, exiting", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}
