package planner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// planNamespace scopes plan IDs so they never clash with other UUIDv5 users.
var planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/geonmo/NMSSMPheno/plan"))

// planID hashes the plan content without its ID, so equal plans share an ID.
func planID(p *Plan) uuid.UUID {
	clone := *p
	clone.ID = ""
	data, err := yaml.Marshal(&clone)
	if err != nil {
		// Plans only hold strings, ints and slices of them.
		panic(fmt.Sprintf("planner: cannot encode plan: %v", err))
	}
	return uuid.NewSHA1(planNamespace, data)
}

// Encode renders the plan as YAML with two-space indentation.
func (p *Plan) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePlan writes the YAML plan to path, creating parent directories.
func WritePlan(path string, p *Plan) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, utils.PermFile); err != nil {
		return fmt.Errorf("failed to write plan %s: %w", path, err)
	}
	return nil
}

// ReadPlan loads a plan written by WritePlan.
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %s: %w", path, err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	return &p, nil
}
