package keysource

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/enccookie/pkg/encryptor"
)

// File is the YAML layout read by FromFile:
//
//	salt: Gfw5ic5qS062JvoubvO+DA==
//	iterations: 999
//	hash: SHA-256
//	length: 256
//	secrets:
//	  - id: 2024-06
//	    secret: current passphrase
//	  - id: 2024-01
//	    secret: previous passphrase
type File struct {
	Salt       string       `yaml:"salt"`
	Iterations int          `yaml:"iterations"`
	Hash       string       `yaml:"hash"`
	Length     int          `yaml:"length"`
	Secrets    []FileSecret `yaml:"secrets"`
}

type FileSecret struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

// FromFile reads and parses the YAML file at path.
func FromFile(path string) (*encryptor.KeyRing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return Parse(data)
}

// Parse derives a ring from YAML data in the File layout.
// Secrets without an id are labelled "file:<index>".
func Parse(data []byte) (*encryptor.KeyRing, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}

	p, err := ParseParams(f.Salt, f.Iterations, f.Hash, f.Length)
	if err != nil {
		return nil, err
	}

	secrets := make([]secret, 0, len(f.Secrets))
	for i, s := range f.Secrets {
		if s.Secret == "" {
			return nil, errors.Join(ErrInvalidFile, fmt.Errorf("secret %d is empty", i))
		}
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("file:%d", i)
		}
		secrets = append(secrets, secret{id: id, value: []byte(s.Secret)})
	}
	return derive(p, secrets)
}
