// Package loader reads and writes the JSON data files that seed the record
// store.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/toca/internal/adapters/repository"
	"github.com/okian/toca/internal/domain/model"
)

// Data file names inside the data directory.
const (
	ProfilesFile     = "profiles.json"
	SessionsFile     = "trainingSessions.json"
	AppointmentsFile = "appointments.json"
)

// Dataset is the full content of a data directory.
type Dataset struct {
	Profiles     []model.Profile
	Sessions     []model.TrainingSession
	Appointments []model.Appointment
}

// Store builds a MemoryStore seeded with the dataset.
func (d Dataset) Store(opts ...repository.Option) *repository.MemoryStore {
	seed := []repository.Option{
		repository.WithProfiles(d.Profiles),
		repository.WithSessions(d.Sessions),
		repository.WithAppointments(d.Appointments),
	}
	return repository.NewMemoryStore(append(seed, opts...)...)
}

// Read loads the three data files from dir. Every file is attempted and all
// failures are reported together.
func Read(ctx context.Context, dir string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrLoadData, err)
	}

	var (
		d    Dataset
		errs *multierror.Error
	)
	errs = multierror.Append(errs, readFile(filepath.Join(dir, ProfilesFile), &d.Profiles))
	errs = multierror.Append(errs, readFile(filepath.Join(dir, SessionsFile), &d.Sessions))
	errs = multierror.Append(errs, readFile(filepath.Join(dir, AppointmentsFile), &d.Appointments))
	if err := errs.ErrorOrNil(); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrLoadData, err)
	}
	return d, nil
}

// Write stores the dataset in dir as indented JSON, creating dir if needed.
// Each file is replaced atomically.
func Write(dir string, d Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteData, err)
	}
	var errs *multierror.Error
	errs = multierror.Append(errs, writeFile(filepath.Join(dir, ProfilesFile), nonNil(d.Profiles)))
	errs = multierror.Append(errs, writeFile(filepath.Join(dir, SessionsFile), nonNil(d.Sessions)))
	errs = multierror.Append(errs, writeFile(filepath.Join(dir, AppointmentsFile), nonNil(d.Appointments)))
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteData, err)
	}
	return nil
}

func readFile[T any](path string, out *[]T) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	*out = items
	return nil
}

func writeFile(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
