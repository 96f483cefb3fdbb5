// Electrochromic window transmission controller

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/ecwindow/base/zaplog"

	"example.com/ecwindow/benchmark"

	"example.com/ecwindow/core/config"
	"example.com/ecwindow/core/fuzzy"
	"example.com/ecwindow/core/window"
)

const (
	inputPrompt = "input(userInteraction,outdoorTemp,indoorTemp,Lux):"

	benchmarkNumSample = 1024
)

var (
	log *zap.Logger
)

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func runMonitor(log *zap.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func loadConfig(configFile string) *config.Config {
	if configFile == "" {
		return window.DefaultConfig()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.String("file", configFile), zap.Error(err))
	}
	return cfg
}

func newController(cfg *config.Config) *window.Controller {
	c, err := window.NewController(log, cfg)
	if err != nil {
		log.Fatal("failed to configure controller", zap.Error(err))
	}
	return c
}

// evaluate parses one input line and returns the text reported to the user.
// An undefined engine output holds the current transmission level.
func evaluate(c *window.Controller, line string) (string, error) {
	in, err := window.ParseInputs(line)
	if err != nil {
		return "", err
	}
	d, err := c.Decide(in)
	if errors.Is(err, fuzzy.ErrUndefinedOutput) {
		log.Info("no rule fired, holding transmission level", zap.Error(err))
		return window.UnchangedMessage, nil
	}
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func runTool(configFile, input string) {
	c := newController(loadConfig(configFile))
	if input == "" {
		fmt.Print(inputPrompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			log.Fatal("failed to read input", zap.Error(err))
		}
		input = line
	}
	res, err := evaluate(c, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println(res)
}

func runServer(configFile string) {
	cfg := loadConfig(configFile)
	c := newController(cfg)
	go runMonitor(log, cfg.MetricsAddress())

	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		id := uuid.NewString()
		res, err := evaluate(c, line)
		if err != nil {
			log.Info("failed to evaluate input", zap.String("id", id), zap.String("input", line), zap.Error(err))
			fmt.Printf("%s\terror: %v\n", id, err)
			continue
		}
		log.Debug("evaluated input", zap.String("id", id), zap.String("input", line), zap.String("result", res))
		fmt.Printf("%s\t%s\n", id, res)
	}
	if err := s.Err(); err != nil {
		log.Fatal("failed to read input", zap.Error(err))
	}
}

func describe(w io.Writer, c *window.Controller) {
	e := c.Engine()
	fmt.Fprintf(w, "defuzzify: %s, spike policy: %s, unchanged below: %v\n",
		e.Method(), e.SpikePolicy(), c.Threshold())
	for _, v := range e.Variables() {
		fmt.Fprintf(w, "%s (%v) %v\n", v.Name(), v.Role(), v.Universe())
		for _, s := range v.Sets() {
			fmt.Fprintf(w, "\t%s\t%v\n", s.Label, s.Shape)
		}
	}
	for _, r := range e.Rules() {
		fmt.Fprintln(w, r)
	}
}

func runDescribe(configFile, format string) {
	cfg := loadConfig(configFile)
	if format != "" {
		raw, err := cfg.Encode(format)
		if err != nil {
			log.Fatal("failed to encode configuration", zap.Error(err))
		}
		_, _ = os.Stdout.Write(raw)
		return
	}
	describe(os.Stdout, newController(cfg))
}

func runBenchmark(configFile string, numGoroutine, numRequest int) {
	c := newController(loadConfig(configFile))
	samples := benchmark.SampleInputs(c.Engine(), benchmarkNumSample, 1)
	err := benchmark.RunComputeBenchmark(log, os.Stdout, c.Engine(), samples, numGoroutine, numRequest)
	if err != nil {
		log.Fatal("benchmark failed", zap.Error(err))
	}
}

func exitWithUsage() {
	fmt.Println("usage: ecwindow tool|serve|describe|benchmark [-config file] [-verbose] ...")
	os.Exit(1)
}

func main() {
	var (
		verbose      bool
		configFile   string
		input        string
		format       string
		numGoroutine int
		numRequest   int
	)

	toolFlags := flag.NewFlagSet("tool", flag.ExitOnError)
	serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
	describeFlags := flag.NewFlagSet("describe", flag.ExitOnError)
	benchmarkFlags := flag.NewFlagSet("benchmark", flag.ExitOnError)

	toolFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	toolFlags.StringVar(&configFile, "config", "", "Config file")
	toolFlags.StringVar(&input, "input", "", "Inputs userInteraction,outdoorTemp,indoorTemp,Lux")

	serveFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	serveFlags.StringVar(&configFile, "config", "", "Config file")

	describeFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	describeFlags.StringVar(&configFile, "config", "", "Config file")
	describeFlags.StringVar(&format, "format", "", "Print the configuration as toml or yaml")

	benchmarkFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchmarkFlags.StringVar(&configFile, "config", "", "Config file")
	benchmarkFlags.IntVar(&numGoroutine, "goroutines", 8, "Number of concurrent goroutines")
	benchmarkFlags.IntVar(&numRequest, "requests", 100_000, "Number of evaluations per goroutine")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case toolFlags.Name():
		err := toolFlags.Parse(os.Args[2:])
		if err != nil || toolFlags.NArg() != 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runTool(configFile, input)
	case serveFlags.Name():
		err := serveFlags.Parse(os.Args[2:])
		if err != nil || serveFlags.NArg() != 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runServer(configFile)
	case describeFlags.Name():
		err := describeFlags.Parse(os.Args[2:])
		if err != nil || describeFlags.NArg() != 0 {
			exitWithUsage()
		}
		if format != "" && format != config.FormatTOML && format != config.FormatYAML {
			exitWithUsage()
		}
		initLogger(verbose)
		runDescribe(configFile, format)
	case benchmarkFlags.Name():
		err := benchmarkFlags.Parse(os.Args[2:])
		if err != nil || benchmarkFlags.NArg() != 0 {
			exitWithUsage()
		}
		if numGoroutine <= 0 || numRequest <= 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runBenchmark(configFile, numGoroutine, numRequest)
	default:
		exitWithUsage()
	}
}
