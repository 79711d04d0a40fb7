// Package batch runs configured background-removal jobs against local files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/background"
	"github.com/ds124wfegd/bgremove/internal/pkg/codec"
	"github.com/sirupsen/logrus"
)

type Result struct {
	Variant string
	Output  string
	Erased  int
}

type Runner struct {
	log logrus.FieldLogger
}

func NewRunner(log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{log: log}
}

// Run decodes job.Input once and writes one PNG per variant. A missing input
// is logged and skipped: no outputs are written and nil is returned.
func (r *Runner) Run(ctx context.Context, job entity.Job) ([]Result, error) {
	log := r.log.WithFields(logrus.Fields{"job": job.Name, "input": job.Input})

	if _, err := os.Stat(job.Input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error(entity.ErrInputNotFound.Error())
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", job.Input, err)
	}

	// rules are validated up front so a bad variant leaves no partial output
	rules := make([]background.Rule, len(job.Variants))
	for i, v := range job.Variants {
		rule, err := background.NewRule(v.Mode, v.Threshold)
		if err != nil {
			return nil, fmt.Errorf("job %s variant %s: %w", job.Name, v.Name, err)
		}
		rules[i] = rule
	}

	log.Info("processing")

	img, err := codec.Open(job.Input)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", job.Input, err)
	}

	results := make([]Result, 0, len(job.Variants))
	for i, v := range job.Variants {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		out, erased, err := background.Erase(ctx, img, rules[i])
		if err != nil {
			return results, err
		}
		if err := codec.Save(v.Output, out); err != nil {
			return results, fmt.Errorf("save %s: %w", v.Output, err)
		}

		log.WithFields(logrus.Fields{
			"variant":   v.Name,
			"mode":      v.Mode,
			"threshold": v.Threshold,
			"erased":    erased,
			"output":    v.Output,
		}).Info("background removed")

		results = append(results, Result{Variant: v.Name, Output: v.Output, Erased: erased})
	}

	return results, nil
}

// RunAll runs jobs in order and stops at the first error.
func (r *Runner) RunAll(ctx context.Context, jobs []entity.Job) error {
	for _, job := range jobs {
		if _, err := r.Run(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// Select returns the jobs whose names are listed, in the order given.
// An empty names list selects every job.
func Select(jobs []entity.Job, names []string) ([]entity.Job, error) {
	if len(names) == 0 {
		return jobs, nil
	}

	byName := make(map[string]entity.Job, len(jobs))
	for _, job := range jobs {
		byName[job.Name] = job
	}

	selected := make([]entity.Job, 0, len(names))
	for _, name := range names {
		job, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown job %q", entity.ErrInvalidInput, name)
		}
		selected = append(selected, job)
	}
	return selected, nil
}
