// Command proxygen generates typed proxy wrappers for Go interfaces.
//
// Usage:
//
//	proxygen -config proxygen.toml
//	proxygen -pkg io -types Reader,Closer -package ioproxy -out io_proxy.go
//	proxygen -version
//
// Flags given on the command line override the [generate] section of the
// config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anoideaopen/proxy/core/codegen"
	"github.com/anoideaopen/proxy/core/config"
	"github.com/anoideaopen/proxy/core/logger"
	"github.com/anoideaopen/proxy/version"
	"github.com/sirupsen/logrus"
)

var errNoTargets = errors.New("no targets: use -config or -pkg and -types")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "proxygen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("proxygen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "path to a TOML config file")
		importPath = fs.String("pkg", "", "import path of the package declaring the interfaces")
		typeNames  = fs.String("types", "", "comma-separated interface names")
		pkgName    = fs.String("package", "", "package name of the generated file")
		output     = fs.String("out", "", "output file")
		showVer    = fs.Bool("version", false, "print the version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVer {
		_, err := fmt.Fprintln(stdout, "proxygen", version.Version())
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.FromFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if *importPath != "" {
		cfg.Generate.Targets = []config.Target{{Import: *importPath, Types: splitList(*typeNames)}}
	}
	if *pkgName != "" {
		cfg.Generate.Package = *pkgName
	}
	if *output != "" {
		cfg.Generate.Output = *output
	}
	if cfg.Generate.Package == "" && cfg.Generate.Output != "" {
		cfg.Generate.Package = packageFromOutput(cfg.Generate.Output)
	}

	if len(cfg.Generate.Targets) == 0 {
		return errNoTargets
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdown, err := config.Apply(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	return generate(cfg.Generate, logger.Logger())
}

func generate(g config.Generate, log *logrus.Entry) error {
	models := make([]*codegen.Model, 0, len(g.Targets))
	for _, t := range g.Targets {
		log.WithFields(logrus.Fields{
			"import": t.Import,
			"types":  strings.Join(t.Types, ","),
		}).Info("introspecting package")

		model, err := codegen.Introspect(t.Import, t.Types...)
		if err != nil {
			return fmt.Errorf("introspecting %s: %w", t.Import, err)
		}
		models = append(models, model)
	}

	src, err := codegen.Generate(g.Package, models...)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(g.Output); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err = os.WriteFile(g.Output, src, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("writing %s: %w", g.Output, err)
	}

	log.WithField("output", g.Output).Info("proxies generated")

	return nil
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}

	return res
}

// packageFromOutput names the package after the directory of the output file.
func packageFromOutput(output string) string {
	abs, err := filepath.Abs(output)
	if err != nil {
		return ""
	}

	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, filepath.Base(filepath.Dir(abs)))

	return strings.ToLower(name)
}
