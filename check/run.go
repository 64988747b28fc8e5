// Package check implements the compatibility check command: it analyzes
// template documents, prints warnings with per-engine scores and optionally
// records the scores in the history store.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	yaml "gopkg.in/yaml.v3"

	"emc/compat"
	"emc/engine"
	"emc/history"
	"emc/input"
	"emc/misc"
	"emc/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

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

	fw, err := state.ResolveFramework(cmd.String("framework"), env)
	if err != nil {
		return err
	}
	env.Framework = fw

	filter, err := resolveEngineFilter(cmd, env, log)
	if err != nil {
		return err
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		}
	}

	var store *history.Store
	if cmd.Bool("history") || env.Cfg.History.Enable {
		dest := env.Cfg.History.Destination
		if len(dest) == 0 {
			dest = misc.GetAppName() + "-history.db"
		}
		if store, err = history.Open(dest, log); err != nil {
			return err
		}
		defer func() {
			if er := store.Close(); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to close history store: %w", er))
			}
		}()
		log.Debug("Recording history", zap.String("destination", dest))
	}

	log.Info("Check starting", zap.String("source", src), zap.String("framework", string(fw)))
	defer func(start time.Time) {
		log.Info("Check completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	docs, err := input.Gather(ctx, src, env.CodePage, log)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no templates found in input source (%s)", src)
	}

	analyzer := compat.NewAnalyzer(log, compat.WithMaxBytes(env.Cfg.Analysis.MaxDocumentBytes))

	var failed int
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkDocument(analyzer, doc, fw, filter, store, env, log, os.Stdout); err != nil {
			log.Error("Unable to check document", zap.String("document", doc.Name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed the check", failed, len(docs))
	}
	return nil
}

func checkDocument(analyzer *compat.Analyzer, doc input.Document, fw compat.Framework, filter map[engine.ID]bool, store *history.Store, env *state.LocalEnv, log *zap.Logger, out io.Writer) error {

	warnings, err := analyzer.GenerateWarnings(string(doc.Data), fw)
	if err != nil {
		return err
	}
	warnings = filterWarnings(warnings, filter)
	scores := filterScores(compat.Score(warnings), filter)

	var prev *history.Run
	if store != nil {
		if prev, err = store.Last(doc.Name); err != nil {
			return err
		}
		if _, err = store.Record(doc.Name, fw, scores); err != nil {
			return err
		}
	}

	printReport(out, doc.Name, warnings, scores, history.Delta(prev, scores))

	if env.Rpt != nil {
		env.Rpt.StoreData("input/"+doc.Name, doc.Data)
		if data, err := yaml.Marshal(warnings); err == nil {
			env.Rpt.StoreData("warnings/"+doc.Name+".yaml", data)
		} else {
			log.Warn("Unable to marshal warnings for report", zap.String("document", doc.Name), zap.Error(err))
		}
	}
	return nil
}

// resolveEngineFilter builds the engine subset from the command line falling
// back to configuration. Nil result means every cataloged engine.
func resolveEngineFilter(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) (map[engine.ID]bool, error) {
	ids := cmd.StringSlice("engine")
	if len(ids) == 0 {
		ids = env.Cfg.Analysis.Engines
	}
	if len(ids) == 0 {
		return nil, nil
	}
	filter := make(map[engine.ID]bool, len(ids))
	for _, s := range ids {
		id := engine.ID(s)
		if !engine.Known(id) {
			return nil, fmt.Errorf("unknown engine id %q", s)
		}
		filter[id] = true
	}
	log.Debug("Restricting analysis to engines", zap.Strings("engines", ids))
	return filter, nil
}

func filterWarnings(ws []compat.Warning, filter map[engine.ID]bool) []compat.Warning {
	if filter == nil {
		return ws
	}
	out := ws[:0]
	for _, w := range ws {
		if filter[w.Engine] {
			out = append(out, w)
		}
	}
	return out
}

func filterScores(scores map[engine.ID]compat.EngineScore, filter map[engine.ID]bool) map[engine.ID]compat.EngineScore {
	if filter == nil {
		return scores
	}
	for id := range scores {
		if !filter[id] {
			delete(scores, id)
		}
	}
	return scores
}

func printReport(out io.Writer, name string, warnings []compat.Warning, scores map[engine.ID]compat.EngineScore, deltas map[engine.ID]int) {

	fmt.Fprintf(out, "%s\n", name)

	for _, w := range warnings {
		fmt.Fprintf(out, "  [%s] %s: %s", w.Severity, w.Engine, w.Message)
		if len(w.Suggestion) > 0 {
			fmt.Fprintf(out, " (%s)", w.Suggestion)
		}
		fmt.Fprintln(out)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(out, "  no compatibility issues detected")
	}

	fmt.Fprintln(out, "  scores:")
	for _, p := range engine.All() {
		es, ok := scores[p.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "    %-16s %3d (%d errors, %d warnings, %d info)", p.ID, es.Score, es.Errors, es.Warnings, es.Info)
		if d, ok := deltas[p.ID]; ok {
			fmt.Fprintf(out, " [%+d]", d)
		}
		fmt.Fprintln(out)
	}
}
