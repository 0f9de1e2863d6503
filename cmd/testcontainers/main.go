package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/campus-market/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var outFilename string
	flag.StringVar(&outFilename, "o", "", "write the connection settings to this .env file")
	flag.Parse()

	usage := `
Start MongoDB, Redis and MariaDB (and the campus-market image when it has been
built) for local development, and print the settings that point the server at them.
The containers run until the process is interrupted.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-o OUT_FILE_PATH]

ENV_FILE_PATH: path to the .env file read before starting
OUT_FILE_PATH: path of a .env file to write the connection settings to

example
  testcontainers -f .env -o .env.containers
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	started := make(chan *testutil.Containers, 1)
	go func() {
		tc, err := testutil.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		started <- tc
	}()

	var tc *testutil.Containers
	select {
	case tc = <-started:
		settings := map[string]string{
			"STORE_TYPE":  "mongodb",
			"MONGODB_URI": tc.MongoURI,
			"REDIS_ADDR":  tc.RedisAddr,
		}
		if tc.ServerURL != "" {
			settings["BASE_URL"] = tc.ServerURL
		}
		printSettings(settings, outFilename)
		log.Printf("Containers ready, press Ctrl+C to stop\n")
		<-sigs
	case sig := <-sigs:
		log.Printf("Received signal: %v before the containers were ready\n", sig)
		return
	}

	log.Printf("Terminating test containers...\n")
	tc.Terminate(nil)
}

func printSettings(settings map[string]string, outFilename string) {
	content, err := godotenv.Marshal(settings)
	if err != nil {
		log.Fatalf("Failed to format settings: %v\n", err)
	}
	fmt.Println(content)

	if outFilename == "" {
		return
	}
	if err := godotenv.Write(settings, outFilename); err != nil {
		log.Fatalf("Failed to write %s: %v\n", outFilename, err)
	}
	log.Printf("Wrote connection settings to %s\n", outFilename)
}
