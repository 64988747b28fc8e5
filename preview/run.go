// Package preview implements the preview command: it writes per-engine
// transformed copies of a template so the author can inspect what each
// rendering engine will actually get.
package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"emc/engine"
	"emc/input"
	"emc/state"
	"emc/transform"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	dst := cmd.String("output")
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	fw, err := state.ResolveFramework(cmd.String("framework"), env)
	if err != nil {
		return err
	}
	env.Framework = fw

	target := engine.ID(cmd.String("engine"))
	if target != "all" && !engine.Known(target) {
		return fmt.Errorf("unknown engine id %q", target)
	}

	log.Info("Preview starting", zap.String("source", src), zap.String("destination", dst), zap.String("engine", string(target)))
	defer func(start time.Time) {
		log.Info("Preview completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	docs, err := input.Gather(ctx, src, env.CodePage, log)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no templates found in input source (%s)", src)
	}

	pipeline := transform.NewPipeline(log, transform.WithMaxBytes(env.Cfg.Analysis.MaxDocumentBytes))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		var results []transform.Result
		if target == "all" {
			if results, err = pipeline.ForAllEngines(string(doc.Data), fw); err != nil {
				return fmt.Errorf("unable to transform %s: %w", doc.Name, err)
			}
		} else {
			res, err := pipeline.ForEngine(string(doc.Data), target, fw)
			if err != nil {
				return fmt.Errorf("unable to transform %s: %w", doc.Name, err)
			}
			results = append(results, res)
		}

		for _, res := range results {
			name := previewName(doc.Name, res.Engine)
			path := filepath.Join(dst, name)
			if _, err := os.Stat(path); err == nil && !cmd.Bool("overwrite") {
				return fmt.Errorf("output file already exists: %s", path)
			}
			if err := os.WriteFile(path, []byte(res.HTML), 0644); err != nil {
				return fmt.Errorf("unable to write preview: %w", err)
			}
			log.Info("Preview written", zap.String("file", path), zap.Int("warnings", len(res.Warnings)))

			if env.Rpt != nil {
				env.Rpt.Store("previews/"+name, path)
			}
		}
	}
	return nil
}

// previewName derives a safe output file name from the document name and the
// engine id, "newsletter/May 2026.html" for gmail-web becomes
// "newsletter-may-2026.gmail-web.html".
func previewName(document string, id engine.ID) string {
	base := strings.TrimSuffix(document, filepath.Ext(document))
	return slug.Make(base) + "." + string(id) + ".html"
}
