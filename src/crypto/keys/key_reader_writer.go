package keys

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"sync"
)

// KeyReaderWriter reads and writes private keys from/to any format or support.
type KeyReaderWriter interface {
	ReadKey() (PrivateKey, error)
	WriteKey(PrivateKey) error
}

// SimpleKeyfile implements KeyReaderWriter with unencrypted files holding a
// single "<type>:<hex>" line.
type SimpleKeyfile struct {
	l       sync.Mutex
	keyfile string
}

// NewSimpleKeyfile instantiates a new SimpleKeyfile with an underlying file
func NewSimpleKeyfile(keyfile string) *SimpleKeyfile {
	simpleKeyfile := &SimpleKeyfile{
		keyfile: keyfile,
	}

	return simpleKeyfile
}

// CheckFileInfo verifies that the file exists and has user permissions only.
func (k *SimpleKeyfile) CheckFileInfo() error {
	info, err := os.Stat(k.keyfile)
	if err != nil {
		return err
	}

	perm := info.Mode().Perm()

	// build 000111111 mask
	var nonUserMask os.FileMode = (1 << 6) - 1

	if nonUserPerm := perm & nonUserMask; nonUserPerm != 0 {
		return fmt.Errorf("key file permissions should exclude 'groups' and 'others'. Got %o", perm)
	}

	return nil
}

// ReadKey implements KeyReaderWriter.
func (k *SimpleKeyfile) ReadKey() (PrivateKey, error) {
	k.l.Lock()
	defer k.l.Unlock()

	if err := k.CheckFileInfo(); err != nil {
		return PrivateKey{}, err
	}

	buf, err := ioutil.ReadFile(k.keyfile)
	if err != nil {
		return PrivateKey{}, err
	}

	return ParsePrivateKeyString(string(buf))
}

// WriteKey implements KeyReaderWriter. The file is created with user-only
// permissions.
func (k *SimpleKeyfile) WriteKey(key PrivateKey) error {
	k.l.Lock()
	defer k.l.Unlock()

	if err := os.MkdirAll(path.Dir(k.keyfile), 0700); err != nil {
		return err
	}

	return ioutil.WriteFile(k.keyfile, []byte(key.String()), 0600)
}
