package network

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"gopkg.in/yaml.v3"
)

// Entry is one line of the address book.
type Entry struct {
	Account string `json:"account" yaml:"account"`
	Address string `json:"address" yaml:"address"`
}

// AddressBook provides node persistence on disk in the form of a JSON or YAML
// file.
type AddressBook struct {
	l    sync.Mutex
	path string
}

// NewAddressBook creates an AddressBook backed by the file at path.
func NewAddressBook(path string) *AddressBook {
	return &AddressBook{
		path: path,
	}
}

func (a *AddressBook) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(a.path))
	return ext == ".yaml" || ext == ".yml"
}

// Nodes parses the underlying file.
func (a *AddressBook) Nodes() ([]*Node, error) {
	a.l.Lock()
	defer a.l.Unlock()

	buf, err := ioutil.ReadFile(a.path)
	if err != nil {
		return nil, err
	}

	// Check for no nodes
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, nil
	}

	var entries []Entry
	if a.isYAML() {
		err = yaml.Unmarshal(buf, &entries)
	} else {
		err = json.NewDecoder(bytes.NewReader(buf)).Decode(&entries)
	}
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(entries))
	for _, e := range entries {
		id, err := hapi.AccountIDFromString(e.Account)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, NewNode(id, strings.TrimSpace(e.Address)))
	}

	return nodes, nil
}

// Write persists nodes to the underlying file.
func (a *AddressBook) Write(nodes []*Node) error {
	a.l.Lock()
	defer a.l.Unlock()

	entries := make([]Entry, len(nodes))
	for i, n := range nodes {
		entries[i] = Entry{Account: n.AccountID.String(), Address: n.Address}
	}

	var (
		buf []byte
		err error
	)
	if a.isYAML() {
		buf, err = yaml.Marshal(entries)
	} else {
		var b bytes.Buffer
		enc := json.NewEncoder(&b)
		enc.SetIndent("", "\t")
		err = enc.Encode(entries)
		buf = b.Bytes()
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0700); err != nil {
		return err
	}

	return ioutil.WriteFile(a.path, buf, 0644)
}
