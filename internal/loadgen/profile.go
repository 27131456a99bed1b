package loadgen

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ordersctl/internal/order"
)

//go:embed profile.cue
var profileSchema string

// Preload sources.
const (
	PreloadNone    = ""
	PreloadJournal = "journal"
	PreloadBackend = "backend"
)

// Profile configures a load run.
type Profile struct {
	Users           int           `yaml:"users" json:"users"`
	Readers         int           `yaml:"readers" json:"readers"`
	Duration        time.Duration `yaml:"duration" json:"duration"`
	Shopper         ShopperConfig `yaml:"shopper" json:"shopper"`
	Reader          ReaderConfig  `yaml:"reader" json:"reader"`
	ProcessStatus   order.Status  `yaml:"process_status" json:"process_status"`
	NotFoundRetries int           `yaml:"not_found_retries" json:"not_found_retries"` // attempts, including the first
	RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay"`
	Preload         Preload       `yaml:"preload" json:"preload"`
	Seed            int64         `yaml:"seed" json:"seed"` // 0 picks a random seed
}

// ShopperConfig tunes the shopper virtual user.
type ShopperConfig struct {
	MinWait time.Duration  `yaml:"min_wait" json:"min_wait"`
	MaxWait time.Duration  `yaml:"max_wait" json:"max_wait"`
	Weights ShopperWeights `yaml:"weights" json:"weights"`
}

// ShopperWeights are relative task frequencies. Zero disables a task.
type ShopperWeights struct {
	Browse  int `yaml:"browse" json:"browse"`
	Place   int `yaml:"place" json:"place"`
	Check   int `yaml:"check" json:"check"`
	Process int `yaml:"process" json:"process"`
	Delete  int `yaml:"delete" json:"delete"`
}

// ReaderConfig tunes the reader virtual user.
type ReaderConfig struct {
	MinWait  time.Duration `yaml:"min_wait" json:"min_wait"`
	MaxWait  time.Duration `yaml:"max_wait" json:"max_wait"`
	PageSize int           `yaml:"page_size" json:"page_size"`
	Weights  ReaderWeights `yaml:"weights" json:"weights"`
}

// ReaderWeights are relative task frequencies. Zero disables a task.
type ReaderWeights struct {
	List   int `yaml:"list" json:"list"`
	Detail int `yaml:"detail" json:"detail"`
}

// Preload names where reader order ids come from.
type Preload struct {
	Source string `yaml:"source" json:"source"`
	Path   string `yaml:"path" json:"path"`
}

// DefaultProfile returns ten shoppers for one minute with the standard task
// mix.
func DefaultProfile() Profile {
	return Profile{
		Users:    10,
		Duration: time.Minute,
		Shopper: ShopperConfig{
			MinWait: time.Second,
			MaxWait: 3 * time.Second,
			Weights: ShopperWeights{Browse: 5, Place: 2, Check: 3, Process: 1, Delete: 1},
		},
		Reader: ReaderConfig{
			MinWait:  100 * time.Millisecond,
			MaxWait:  500 * time.Millisecond,
			PageSize: 50,
			Weights:  ReaderWeights{List: 9, Detail: 1},
		},
		ProcessStatus:   order.StatusCompleted,
		NotFoundRetries: 5,
		RetryDelay:      time.Second,
	}
}

// LoadProfile reads a YAML profile. Fields absent from the file keep their
// DefaultProfile values. The result is validated.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a YAML profile.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks field ranges against the embedded CUE schema, then the
// cross-field rules the schema does not express.
func (p Profile) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(profileSchema, cue.Filename("profile.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(p))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if p.Users+p.Readers == 0 {
		return errors.New("invalid profile: at least one of users or readers must be positive")
	}
	if p.Users > 0 && p.Shopper.Weights.total() == 0 {
		return errors.New("invalid profile: shopper weights are all zero")
	}
	if p.Readers > 0 && p.Reader.Weights.List+p.Reader.Weights.Detail == 0 {
		return errors.New("invalid profile: reader weights are all zero")
	}
	if p.Preload.Source == PreloadBackend && p.Preload.Path == "" {
		return errors.New("invalid profile: preload.path is required for the backend source")
	}
	return nil
}

func (w ShopperWeights) total() int {
	return w.Browse + w.Place + w.Check + w.Process + w.Delete
}
