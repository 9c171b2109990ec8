package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// DocumentSource provides the decoded language documents of an agent.
type DocumentSource interface {
	Languages() ([]language.Code, error)
	IntentDocument(intent string, lang language.Code) (any, error)
	EntityDocument(entity string, lang language.Code) (any, error)
}

// ProgressFunc is called after each intent or entity is loaded.
type ProgressFunc func(done, total int, item string)

// LoadOptions controls LoadLanguages.
type LoadOptions struct {
	// Languages restricts loading to these languages. Empty means every
	// language the source provides.
	Languages   []language.Code
	Concurrency int
	OnProgress  ProgressFunc
	Logger      *zap.Logger
}

// IntentResult is the outcome of loading one intent in one language.
type IntentResult struct {
	Intent   string
	Language language.Code
	Data     *language.IntentLanguageData
	Err      error
}

// EntityResult is the outcome of loading one custom entity in one language.
type EntityResult struct {
	Entity   string
	Language language.Code
	Entries  []language.EntityEntry
	Err      error
}

// LoadReport collects the outcome of every pair. Results follow intent
// registration order, then language order.
type LoadReport struct {
	Agent     string
	Languages []language.Code
	Intents   []IntentResult
	Entities  []EntityResult
}

// Failed returns the number of pairs that did not load.
func (r *LoadReport) Failed() int {
	n := 0
	for _, res := range r.Intents {
		if res.Err != nil {
			n++
		}
	}
	for _, res := range r.Entities {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Err joins every pair failure, or returns nil if everything loaded.
func (r *LoadReport) Err() error {
	var errs []error
	for _, res := range r.Intents {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("[%s] %w", res.Language, res.Err))
		}
	}
	for _, res := range r.Entities {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("[%s] %w", res.Language, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Intent returns the result for intent in lang.
func (r *LoadReport) Intent(name string, lang language.Code) (IntentResult, bool) {
	for _, res := range r.Intents {
		if res.Intent == name && res.Language == lang {
			return res, true
		}
	}
	return IntentResult{}, false
}

// LoadLanguages loads the language data of every intent and custom entity of
// a in every language. A failing pair is recorded in the report and does not
// affect the others. The returned error is only set when the languages
// cannot be listed.
func LoadLanguages(ctx context.Context, a *Agent, src DocumentSource, opts LoadOptions) (*LoadReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	langs := opts.Languages
	if len(langs) == 0 {
		var err error
		langs, err = src.Languages()
		if err != nil {
			return nil, err
		}
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	intents := a.Intents()
	entities := a.CustomEntities()
	report := &LoadReport{
		Agent:     a.Name(),
		Languages: langs,
		Intents:   make([]IntentResult, 0, len(intents)*len(langs)),
		Entities:  make([]EntityResult, 0, len(entities)*len(langs)),
	}
	for _, intent := range intents {
		for _, lang := range langs {
			report.Intents = append(report.Intents, IntentResult{Intent: intent.Name, Language: lang})
		}
	}
	for _, entity := range entities {
		for _, lang := range langs {
			report.Entities = append(report.Entities, EntityResult{Entity: string(entity), Language: lang})
		}
	}

	// Each job owns one slot of the report.
	var jobs []func() string
	for i := range report.Intents {
		res := &report.Intents[i]
		jobs = append(jobs, func() string {
			intent, _ := a.Intent(res.Intent)
			res.Data, res.Err = loadIntent(src, intent.Name, intent, res.Language)
			return fmt.Sprintf("%s/%s", res.Language, res.Intent)
		})
	}
	for i := range report.Entities {
		res := &report.Entities[i]
		jobs = append(jobs, func() string {
			res.Entries, res.Err = loadEntity(src, res.Entity, res.Language)
			return fmt.Sprintf("%s/ENTITY_%s", res.Language, res.Entity)
		})
	}

	total := len(jobs)
	var processed int64
	progress := func(item string) {
		count := atomic.AddInt64(&processed, 1)
		if opts.OnProgress != nil {
			opts.OnProgress(int(count), total, item)
		}
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			skip(report, i, err)
			progress("skipped")
			continue
		}
		select {
		case <-ctx.Done():
			skip(report, i, ctx.Err())
			progress("skipped")
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(job func() string) {
			defer wg.Done()
			defer func() { <-sem }()
			progress(job())
		}(job)
	}
	wg.Wait()

	for _, res := range report.Intents {
		if res.Err != nil {
			logger.Warn("intent language failed to load",
				zap.String("intent", res.Intent), zap.String("language", string(res.Language)), zap.Error(res.Err))
		}
	}
	for _, res := range report.Entities {
		if res.Err != nil {
			logger.Warn("entity language failed to load",
				zap.String("entity", res.Entity), zap.String("language", string(res.Language)), zap.Error(res.Err))
		}
	}
	logger.Debug("language loading complete",
		zap.String("agent", report.Agent), zap.Int("pairs", total), zap.Int("failed", report.Failed()))
	return report, nil
}

// skip records err on the i-th job's slot.
func skip(report *LoadReport, i int, err error) {
	if i < len(report.Intents) {
		report.Intents[i].Err = err
		return
	}
	report.Entities[i-len(report.Intents)].Err = err
}

func loadIntent(src DocumentSource, name string, intent language.SchemaProvider, lang language.Code) (*language.IntentLanguageData, error) {
	doc, err := src.IntentDocument(name, lang)
	if err != nil {
		return nil, &language.LanguageLoadError{IntentName: name, Cause: err}
	}
	return language.LoadIntent(doc, intent)
}

func loadEntity(src DocumentSource, entity string, lang language.Code) ([]language.EntityEntry, error) {
	doc, err := src.EntityDocument(entity, lang)
	if err != nil {
		return nil, &language.EntityLoadError{EntityName: entity, Cause: err}
	}
	return language.LoadEntity(doc, entity)
}
