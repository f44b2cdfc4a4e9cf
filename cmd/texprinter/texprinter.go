package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/exp/slices"

	"github.com/islandoftex/texprinter"
)

var question = flag.StringP("question", "q", "", "Question file (YAML or JSON) or HTTP(s) URL; required")
var format = flag.StringP("format", "f", "pdf", "Output format [pdf | tex]")
var output = flag.StringP("output", "o", "", "Output filename (default: <id>.pdf or <id>.tex)")
var questionID = flag.String("id", "", "Question ID, digits only; overrides the id in the question file")
var baseURL = flag.String("base-url", "", "Base URL used to resolve relative image sources")
var imageDir = flag.String("image-dir", ".", "Directory images are downloaded to")
var pathToSyntaxFiles = flag.StringP("syntax-files", "s", "", "Path to github.com/jessp01/gohighlight/syntax_files")
var imageRewrite = flag.String("image-rewrite", "structural", "TeX image substitution [structural | literal]; literal only matches <img src=\"URL\" /> and may abort on other img tags, such as HTML5 <img src=\"URL\" alt=\"...\">")
var concurrency = flag.Int("concurrency", 4, "Parallel image downloads per fragment")
var timeout = flag.Duration("timeout", 30*time.Second, "Timeout for a single image download")
var noCaptions = flag.Bool("no-captions", false, "Do not turn image alt texts into figure captions")
var textIcons = flag.Bool("text-icons", false, "Replace emoji in PDF output with text badges such as [like] instead of stripping them")
var configPath = flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/texprinter/config.yaml)")
var logFile = flag.String("log-file", "", "Path to log file")
var debug = flag.Bool("debug", false, "Enable debug logging (creates .log file alongside the output)")
var help = flag.Bool("help", false, "Show usage message")
var ver = flag.Bool("version", false, "Print version and build info")
var version = "dev"

var formats = []string{"pdf", "tex"}

var httpRegex = regexp.MustCompile("^http(s)?://")

func processRemoteQuestion(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", texprinter.ErrQuestionNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("Received non 200 response code: " + fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}

func loadQuestion(src string) (*texprinter.Question, error) {
	if !httpRegex.MatchString(src) {
		return texprinter.LoadQuestion(src)
	}
	content, err := processRemoteQuestion(src)
	if err != nil {
		return nil, err
	}
	return texprinter.ParseQuestion(content)
}

// applyFlags copies the flags given on the command line over cfg.
func applyFlags(cfg *config) {
	changed := flag.CommandLine.Changed
	if changed("format") || cfg.Format == "" {
		cfg.Format = *format
	}
	if changed("base-url") {
		cfg.BaseURL = *baseURL
	}
	if changed("image-dir") {
		cfg.ImageDir = *imageDir
	}
	if changed("syntax-files") {
		cfg.SyntaxFiles = *pathToSyntaxFiles
	}
	if changed("image-rewrite") {
		cfg.ImageRewrite = *imageRewrite
	}
	if changed("concurrency") {
		cfg.Concurrency = *concurrency
	}
	if changed("timeout") {
		cfg.Timeout = *timeout
	}
	if changed("no-captions") {
		cfg.NoCaptions = *noCaptions
	}
	if changed("text-icons") {
		cfg.TextIcons = *textIcons
	}
}

func outputName(id, src, ext string) string {
	if id != "" {
		return id + "." + ext
	}
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
}

func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil
}

func main() {
	flag.Parse()

	// Support positional arguments: texprinter question.yaml [output]
	if *question == "" && len(flag.Args()) > 0 {
		*question = flag.Args()[0]
	}
	if *output == "" && len(flag.Args()) > 1 {
		*output = flag.Args()[1]
	}

	if *help {
		usage("")
		return
	}
	if *ver {
		fmt.Printf("texprinter %s\n", version)
		return
	}
	if *question == "" {
		usage("A question file or URL is required")
	}

	cfg, err := loadConfig(findConfigFile(*configPath), *configPath != "")
	if err != nil {
		fatal(err)
	}
	applyFlags(&cfg)
	if !slices.Contains(formats, cfg.Format) {
		fatal(fmt.Errorf("unknown format %q (available: %s)", cfg.Format, strings.Join(formats, ", ")))
	}
	if *questionID != "" && !texprinter.ValidQuestionID(*questionID) {
		fatal(fmt.Errorf("%w: %q", texprinter.ErrInvalidQuestionID, *questionID))
	}

	q, err := loadQuestion(*question)
	if err != nil {
		fatal(err)
	}
	id := *questionID
	if id == "" {
		id = q.ID
	}
	if *output == "" {
		*output = outputName(id, *question, cfg.Format)
	}
	if cfg.BaseURL == "" && httpRegex.MatchString(*question) {
		// resolve relative images against the question's location
		cfg.BaseURL = strings.Replace(filepath.Dir(*question), ":/", "://", 1) + "/"
	}

	// Auto-generate log file path for --debug
	tracerFile := *logFile
	if *debug && tracerFile == "" {
		tracerFile = strings.TrimSuffix(*output, filepath.Ext(*output)) + ".log"
	}
	logger, closeLog, err := newLogger(tracerFile, *debug)
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	warnings, err := generate(context.Background(), cfg, q, id, *output, logger)
	for _, w := range warnings {
		logger.Warn("image replaced by placeholder", "url", w.URL, "err", w.Err)
	}
	if err != nil {
		logger.Error("generation failed", "output", *output, "err", err)
		closeLog()
		fatal(err)
	}
	logger.Info("document written", "output", *output, "format", cfg.Format, "warnings", len(warnings))
}

// generate writes the document for q to path. The partial file is removed
// when generation fails.
func generate(ctx context.Context, cfg config, q *texprinter.Question, id, path string, logger *slog.Logger) (warnings []texprinter.FetchWarning, err error) {
	rewrite, err := texprinter.ParseImageRewrite(cfg.ImageRewrite)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		return nil, err
	}
	fetcher := texprinter.NewFetcher(cfg.ImageDir, logger)
	if cfg.Timeout > 0 {
		fetcher.Client.Timeout = cfg.Timeout
	}
	opts := texprinter.DefaultOptions()
	opts.BaseURL = cfg.BaseURL
	opts.ImageRewrite = rewrite
	opts.FetchConcurrency = cfg.Concurrency
	opts.Captions = !cfg.NoCaptions
	tr, err := texprinter.NewTranspiler(opts, fetcher, logger)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Info("removing partial output", "output", path)
			if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				logger.Error("partial output could not be removed", "output", path, "err", rerr)
			}
		}
	}()

	if cfg.Format == "tex" {
		return texprinter.GenerateTeX(ctx, f, q, tr)
	}

	icons := texprinter.IconModeStrip
	if cfg.TextIcons {
		icons = texprinter.IconModeText
	}
	w := texprinter.NewPDFWriter(texprinter.PDFWriterParams{
		Out:        f,
		QuestionID: id,
		Version:    version,
		SyntaxDir:  cfg.SyntaxFiles,
		Icons:      icons,
		Logger:     logger,
	})
	a := &texprinter.Assembler{Out: w, Transpiler: tr, Logger: logger}
	warnings, err = a.Assemble(ctx, q)
	if err != nil {
		return warnings, err
	}
	return warnings, w.Close()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func usage(msg string) {
	code := 0
	if msg != "" {
		fmt.Println(msg + "\n")
		code = 2
	}
	fmt.Printf("Usage: texprinter (%s) [options] [question] [output]\n", version)
	flag.PrintDefaults()
	os.Exit(code)
}
