package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/boyter/gocodewalker"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stepkit/expresso/express/parser"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
	"github.com/stepkit/expresso/ir"
	part21ast "github.com/stepkit/expresso/part21/ast"
	"github.com/stepkit/expresso/part21/instance"
	part21parser "github.com/stepkit/expresso/part21/parser"
	part21token "github.com/stepkit/expresso/part21/token"
)

// ParseExpressCmd compiles one or more EXPRESS schema files into the
// legalized IR, reporting any diagnostic encountered.
type ParseExpressCmd struct {
	Path string `arg:"" help:"EXPRESS source file or directory." type:"path"`
}

func (c *ParseExpressCmd) Run(ctx *Context) error {
	files, err := gatherFiles(c.Path, ctx.Config.SchemaExtensions)
	if err != nil {
		return err
	}

	var failed int

	for _, f := range files {
		if err := compileExpressFile(ctx, f); err != nil {
			failed++

			ctx.Logger.Error("compile failed", zap.String("file", f), zap.Error(err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schema files failed to compile", failed, len(files))
	}

	return nil
}

func compileExpressFile(ctx *Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	toks, err := token.New(string(src)).All()
	if err != nil {
		return renderErr(src, err)
	}

	tree, err := parser.Parse(toks)
	if err != nil {
		return renderErr(src, err)
	}

	prog, err := ir.Legalize(tree)
	if err != nil {
		return renderErr(src, err)
	}

	if !ctx.Quiet {
		for _, sc := range prog.Schemas {
			ctx.Logger.Info("schema compiled",
				zap.String("file", path),
				zap.String("schema", sc.Name),
				zap.Int("entities", len(sc.Entities)),
				zap.Int("types", len(sc.Types)))
		}
	}

	return nil
}

func renderErr(src []byte, err error) error {
	if de, ok := err.(*diag.Error); ok {
		return fmt.Errorf("%s", diag.Render(string(src), de, os.Stderr.Fd()))
	}

	return err
}

// ParseStepCmd parses a STEP Part 21 exchange file and reports its
// instance count.
type ParseStepCmd struct {
	Path string `arg:"" help:"Part 21 exchange file or directory." type:"path"`
}

func (c *ParseStepCmd) Run(ctx *Context) error {
	files, err := gatherFiles(c.Path, ctx.Config.Part21Extensions)
	if err != nil {
		return err
	}

	var failed int

	for _, f := range files {
		if _, err := parseStepFile(ctx, f); err != nil {
			failed++

			ctx.Logger.Error("parse failed", zap.String("file", f), zap.Error(err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d exchange files failed to parse", failed, len(files))
	}

	return nil
}

func parseStepFile(ctx *Context, path string) (*part21ast.ExchangeFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	toks, err := part21token.New(string(src)).All()
	if err != nil {
		return nil, err
	}

	ef, err := part21parser.Parse(toks)
	if err != nil {
		return nil, err
	}

	tbl, err := instance.Build(ef)
	if err != nil {
		return nil, err
	}

	if !ctx.Quiet {
		ctx.Logger.Info("exchange file parsed",
			zap.String("file", path),
			zap.Int("data_sections", len(ef.Data)),
			zap.Int("instances", tbl.Len()))
	}

	return ef, nil
}

// InspectCmd prints a JSON summary of a single Part 21 exchange file,
// tagged with a run-correlation id.
type InspectCmd struct {
	Path string `arg:"" help:"Part 21 exchange file." type:"path"`
}

type inspectSummary struct {
	RunID        string   `json:"run_id"`
	File         string   `json:"file"`
	DataSections int      `json:"data_sections"`
	Instances    int      `json:"instances"`
	Keywords     []string `json:"keywords"`
	HasAnchor    bool     `json:"has_anchor"`
	HasReference bool     `json:"has_reference"`
	HasSignature bool     `json:"has_signature"`
}

func (c *InspectCmd) Run(ctx *Context) error {
	ef, err := parseStepFile(ctx, c.Path)
	if err != nil {
		return err
	}

	tbl, err := instance.Build(ef)
	if err != nil {
		return err
	}

	keywords := map[string]bool{}

	for _, ds := range ef.Data {
		for _, inst := range ds.Instances {
			for _, rec := range inst.Records {
				keywords[strings.ToUpper(rec.Keyword)] = true
			}
		}
	}

	keywordList := make([]string, 0, len(keywords))
	for k := range keywords {
		keywordList = append(keywordList, k)
	}

	summary := inspectSummary{
		RunID:        uuid.NewString(),
		File:         c.Path,
		DataSections: len(ef.Data),
		Instances:    tbl.Len(),
		Keywords:     keywordList,
		HasAnchor:    ef.HasAnchor,
		HasReference: ef.HasRef,
		HasSignature: ef.HasSig,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(summary)
}

// VersionCmd prints the expresso build version.
type VersionCmd struct{}

// Version is set at build time via -ldflags; "dev" otherwise.
var Version = "dev"

func (c *VersionCmd) Run(ctx *Context) error {
	fmt.Println("expresso", Version)
	return nil
}

// gatherFiles resolves path to a single file, or walks it as a
// directory filtering by ext when it's a directory.
func gatherFiles(path string, exts []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	fileListQueue := make(chan *gocodewalker.File, 100)
	walker := gocodewalker.NewFileWalker(path, fileListQueue)
	walker.AllowListExtensions = stripDots(exts)
	walker.SetErrorHandler(func(error) bool { return true })

	go func() {
		_ = walker.Start()
	}()

	var out []string

	for f := range fileListQueue {
		out = append(out, f.Location)
	}

	return out, nil
}

func stripDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}

	return out
}
