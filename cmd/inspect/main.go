// Inspect runs the recognition engine over a captured frame: pixel
// signatures from a YAML file, and optionally the template classifier
// against a directory of reference masks.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/framesight/vision/pixel"
	"github.com/framesight/vision/template"
)

func main() {
	framePath := flag.String("frame", "", "captured frame (PNG or JPEG)")
	sigPath := flag.String("signatures", "", "YAML signature definitions")
	maskDir := flag.String("masks", "", "directory of reference mask PNGs")
	details := flag.Bool("details", false, "print per-rule detail for every signature")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *framePath == "" {
		slog.Error("missing -frame")
		os.Exit(2)
	}

	frame, err := loadFrame(*framePath)
	if err != nil {
		slog.Error("failed to load frame", "path", *framePath, "error", err)
		os.Exit(1)
	}
	b := frame.Bounds()
	slog.Info("frame loaded", "path", *framePath, "width", b.Dx(), "height", b.Dy())

	if *sigPath != "" {
		if err := runSignatures(frame, *sigPath, *details); err != nil {
			slog.Error("signature check failed", "error", err)
			os.Exit(1)
		}
	}

	if *maskDir != "" {
		if err := runClassifier(frame, *maskDir); err != nil {
			slog.Error("template classification failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func runSignatures(frame image.Image, path string, details bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sigs, err := pixel.ParseSignaturesYAML(data)
	if err != nil {
		return err
	}

	for _, sig := range sigs {
		var res pixel.MatchResult
		if details {
			res = pixel.CheckSignatureDetailed(frame, sig)
		} else {
			res = pixel.CheckSignature(frame, sig)
		}
		slog.Info("signature checked",
			"name", res.Name,
			"matched", res.Matched,
			"rules", fmt.Sprintf("%d/%d", res.MatchedCount, res.TotalCount),
			"strategy", sig.Strategy.String(),
		)
		for _, d := range res.Details {
			slog.Info("  rule",
				"at", fmt.Sprintf("[%.4f,%.4f]", d.Rule.X, d.Rule.Y),
				"want", d.Rule.Color.String(),
				"got", d.Actual.String(),
				"distance", fmt.Sprintf("%.1f", d.Distance),
				"matched", d.Matched,
			)
		}
	}

	if res, ok := pixel.Identify(frame, sigs); ok {
		slog.Info("frame identified", "name", res.Name)
	} else {
		slog.Info("frame matched no signature")
	}
	return nil
}

func runClassifier(frame image.Image, dir string) error {
	names, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return err
	}
	sort.Strings(names)
	entries := make([]template.Entry, 0, len(names))
	for _, n := range names {
		base := filepath.Base(n)
		entries = append(entries, template.Entry{
			Name: strings.TrimSuffix(base, ".png"),
			Path: base,
		})
	}
	if len(entries) == 0 {
		return fmt.Errorf("no mask PNGs in %s", dir)
	}

	store := template.NewStore(os.DirFS(dir), entries, template.DefaultRefWidth, template.DefaultRefHeight)
	clf := template.New(store, template.Config{})
	if err := clf.Warm(); err != nil {
		return err
	}

	if !clf.IsTabBar(frame) {
		slog.Info("frame is not a tabbed page")
		return nil
	}
	if idx, ok := clf.ActiveTab(frame); ok {
		slog.Info("active tab", "index", idx)
	}

	category, err := clf.Classify(frame)
	if err != nil {
		return err
	}
	scores, err := clf.Score(frame)
	if err != nil {
		return err
	}
	for i, e := range entries {
		slog.Info("coverage", "candidate", e.Name, "score", fmt.Sprintf("%.3f", scores[i]))
	}
	slog.Info("frame classified", "category", category)
	return nil
}
