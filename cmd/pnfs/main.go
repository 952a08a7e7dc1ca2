// Command pnfs is an interactive shell over an in-memory PNFS volume. With
// no flags it starts from a freshly formatted empty volume; --image loads an
// existing host image first.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	s := newShell()

	app := &cli.App{
		Name:  "pnfs",
		Usage: "Start an interactive PNFS shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "image",
				Usage: "load an existing PNFS image from this host file instead of starting blank",
			},
		},
		Action: func(c *cli.Context) error {
			if path := c.String("image"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := s.sb.LoadImage(data); err != nil {
					return err
				}
			}
			runRepl(s)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(1)
	}
}

func runRepl(s *shell) {
	repl := newApp(s)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Fprint(os.Stdout, "pnfs> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			args := append([]string{"pnfs"}, fields...)
			if err := repl.Run(args); err != nil {
				fmt.Fprintf(os.Stderr, "error: %s\n", err)
			}
		}
		if s.quit {
			return
		}
		fmt.Fprint(os.Stdout, "pnfs> ")
	}
}
