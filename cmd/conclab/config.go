package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"
)

// scenario is the optional YAML configuration for the reduce command.
// Flags given on the command line override file values.
type scenario struct {
	Runs          int   `yaml:"runs,omitempty"`
	InputSize     int   `yaml:"input-size,omitempty"`
	Workers       []int `yaml:"workers,omitempty"`
	QueueCapacity int   `yaml:"queue-capacity,omitempty"`
}

func defaultScenario() *scenario {
	return &scenario{
		Runs:      5,
		InputSize: 20_000_000,
		Workers:   []int{1, 2, 4, 8},
	}
}

// loadScenario reads and validates a scenario file, filling in defaults for
// omitted fields.
func loadScenario(file string) (*scenario, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	s := new(scenario)
	if err = yaml.Unmarshal(b, s); err != nil {
		return nil, err
	}
	if err = s.validateSetDefaults(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *scenario) validateSetDefaults() error {
	def := defaultScenario()
	if s.Runs == 0 {
		s.Runs = def.Runs
	}
	if s.Runs < 3 {
		return errors.New("scenario: runs must be at least 3")
	}
	if s.InputSize == 0 {
		s.InputSize = def.InputSize
	}
	if s.InputSize < 0 {
		return errors.New("scenario: input-size must be positive")
	}
	if len(s.Workers) == 0 {
		s.Workers = def.Workers
	}
	for _, w := range s.Workers {
		if w <= 0 {
			return errors.New("scenario: worker counts must be positive")
		}
	}
	if s.QueueCapacity < 0 {
		return errors.New("scenario: queue-capacity must not be negative")
	}
	return nil
}
