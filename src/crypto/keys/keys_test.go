package keys

import (
	"io/ioutil"
	"os"
	"path"
	"testing"
)

func TestSimpleKeyfile(t *testing.T) {
	dir := t.TempDir()

	simpleKeyfile := NewSimpleKeyfile(path.Join(dir, "operator_key"))

	// Try a read, should get nothing
	if _, err := simpleKeyfile.ReadKey(); err == nil {
		t.Fatalf("ReadKey should generate an error")
	}

	for _, kt := range []KeyType{Ed25519, ECDSASecp256k1} {
		key, err := GenerateKey(kt)
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		if err := simpleKeyfile.WriteKey(key); err != nil {
			t.Fatalf("err: %v", err)
		}

		nKey, err := simpleKeyfile.ReadKey()
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		if nKey.String() != key.String() {
			t.Fatalf("%s keys do not match", kt)
		}
		if !nKey.PublicKey().Equal(key.PublicKey()) {
			t.Fatalf("%s public keys do not match", kt)
		}
	}
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()

	key, _ := GenerateEd25519Key()
	raw := []byte(key.String())

	badKeyPath := path.Join(dir, "key_bad")

	shouldErr := []uint32{
		0777, 0766, 0744,
		0677, 0666, 0644,
		0477, 0466, 0444,
	}

	for _, fm := range shouldErr {
		ioutil.WriteFile(badKeyPath, raw, 0600)
		chmod(t, badKeyPath, fm)

		if _, err := NewSimpleKeyfile(badKeyPath).ReadKey(); err == nil {
			t.Fatalf("%o || key file should return permissions error", fm)
		}
		chmod(t, badKeyPath, 0600)
	}

	goodKeyPath := path.Join(dir, "key_good")

	shouldNotErr := []uint32{
		0700, 0600, 0500, 0400,
	}

	for _, fm := range shouldNotErr {
		ioutil.WriteFile(goodKeyPath, raw, 0600)
		chmod(t, goodKeyPath, fm)

		if _, err := NewSimpleKeyfile(goodKeyPath).ReadKey(); err != nil {
			t.Fatalf("%o || key file should not return error. Got %v", fm, err)
		}
		chmod(t, goodKeyPath, 0600)
	}
}

func TestSignVerify(t *testing.T) {
	msg := []byte("J'aime mieux forger mon ame que la meubler")

	for _, kt := range []KeyType{Ed25519, ECDSASecp256k1} {
		key, err := GenerateKey(kt)
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		sig, err := key.Sign(msg)
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		pub := key.PublicKey()
		if !pub.Verify(msg, sig) {
			t.Fatalf("%s signature should verify", kt)
		}
		if pub.Verify([]byte("other"), sig) {
			t.Fatalf("%s signature should not verify another message", kt)
		}

		other, _ := GenerateKey(kt)
		if other.PublicKey().Verify(msg, sig) {
			t.Fatalf("%s signature should not verify with another key", kt)
		}

		parsed, err := ParsePublicKey(kt, pub.Bytes())
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if !parsed.Equal(pub) {
			t.Fatalf("%s public key did not survive parsing", kt)
		}
	}
}

func TestECDSAPublicKeyIsCompressed(t *testing.T) {
	key, _ := GenerateECDSAKey()
	if l := len(key.PublicKey().Bytes()); l != 33 {
		t.Fatalf("compressed secp256k1 key should be 33 bytes, not %d", l)
	}
}

func TestKeyListSatisfaction(t *testing.T) {
	a := mustKey(t).PublicKey()
	b := mustKey(t).PublicKey()
	c := mustKey(t).PublicKey()
	d := mustKey(t).PublicKey()

	// a AND (2 of b, c, d)
	policy := NewKeyList(a, NewThresholdKey(2, b, c, d))

	signed := map[string]bool{}
	steps := []struct {
		signer PublicKey
		want   bool
	}{
		{b, false},
		{a, false},
		{d, true},
		{c, true},
	}

	for i, s := range steps {
		signed[s.signer.Hex()] = true
		if got := IsSatisfied(policy, signed); got != s.want {
			t.Fatalf("step %d: satisfied = %v, want %v", i, got, s.want)
		}
	}

	if n := len(policy.PublicKeys()); n != 4 {
		t.Fatalf("PublicKeys should list 4 keys, not %d", n)
	}
}

func TestImpossibleThreshold(t *testing.T) {
	a := mustKey(t).PublicKey()
	policy := NewThresholdKey(2, a)
	if IsSatisfied(policy, map[string]bool{a.Hex(): true}) {
		t.Fatal("threshold above list size can never be satisfied")
	}
	if IsSatisfied(nil, map[string]bool{a.Hex(): true}) {
		t.Fatal("nil key is never satisfied")
	}
}

func mustKey(t *testing.T) PrivateKey {
	key, err := GenerateEd25519Key()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	return key
}

func chmod(t *testing.T, p string, mode uint32) {
	if err := os.Chmod(p, os.FileMode(mode)); err != nil {
		t.Fatalf("err: %v", err)
	}
}
