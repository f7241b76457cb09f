package hapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AccountID identifies an account as shard.realm.num.
type AccountID struct {
	Shard int64 `codec:"shard"`
	Realm int64 `codec:"realm"`
	Num   int64 `codec:"num"`
}

// FileID identifies a file as shard.realm.num.
type FileID struct {
	Shard int64 `codec:"shard"`
	Realm int64 `codec:"realm"`
	Num   int64 `codec:"num"`
}

// TopicID identifies a consensus topic as shard.realm.num.
type TopicID struct {
	Shard int64 `codec:"shard"`
	Realm int64 `codec:"realm"`
	Num   int64 `codec:"num"`
}

func (a AccountID) String() string { return formatEntity(a.Shard, a.Realm, a.Num) }
func (f FileID) String() string    { return formatEntity(f.Shard, f.Realm, f.Num) }
func (t TopicID) String() string   { return formatEntity(t.Shard, t.Realm, t.Num) }

// IsZero reports whether a is the zero account.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// AccountIDFromString parses "shard.realm.num".
func AccountIDFromString(s string) (AccountID, error) {
	sh, re, num, err := parseEntity(s)
	return AccountID{Shard: sh, Realm: re, Num: num}, err
}

// FileIDFromString parses "shard.realm.num".
func FileIDFromString(s string) (FileID, error) {
	sh, re, num, err := parseEntity(s)
	return FileID{Shard: sh, Realm: re, Num: num}, err
}

// TopicIDFromString parses "shard.realm.num".
func TopicIDFromString(s string) (TopicID, error) {
	sh, re, num, err := parseEntity(s)
	return TopicID{Shard: sh, Realm: re, Num: num}, err
}

func formatEntity(shard, realm, num int64) string {
	return fmt.Sprintf("%d.%d.%d", shard, realm, num)
}

func parseEntity(s string) (int64, int64, int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected shard.realm.num, got %q", s)
	}
	var out [3]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("invalid entity id %q", s)
		}
		out[i] = v
	}
	return out[0], out[1], out[2], nil
}

// Timestamp is a point in time with nanosecond precision.
type Timestamp struct {
	Seconds int64 `codec:"seconds"`
	Nanos   int32 `codec:"nanos"`
}

// TimestampFromTime converts t.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time converts ts back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Add returns ts shifted by d, normalised.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return TimestampFromTime(ts.Time().Add(d))
}

// Before reports whether ts is strictly earlier than o.
func (ts Timestamp) Before(o Timestamp) bool {
	if ts.Seconds != o.Seconds {
		return ts.Seconds < o.Seconds
	}
	return ts.Nanos < o.Nanos
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%d.%09d", ts.Seconds, ts.Nanos)
}

// TransactionID is the identity of a transaction: the paying account and the
// start of its validity window. Scheduled and Nonce distinguish the
// transactions a ledger derives from a user transaction.
type TransactionID struct {
	AccountID  AccountID `codec:"account"`
	ValidStart Timestamp `codec:"validStart"`
	Scheduled  bool      `codec:"scheduled"`
	Nonce      int32     `codec:"nonce"`
}

// String renders the id as payer@seconds.nanos with an optional ?scheduled and
// /nonce suffix.
func (id TransactionID) String() string {
	s := fmt.Sprintf("%s@%s", id.AccountID, id.ValidStart)
	if id.Scheduled {
		s += "?scheduled"
	}
	if id.Nonce != 0 {
		s += fmt.Sprintf("/%d", id.Nonce)
	}
	return s
}

// TransactionIDFromString parses the output of TransactionID.String.
func TransactionIDFromString(s string) (TransactionID, error) {
	var id TransactionID

	if i := strings.LastIndex(s, "/"); i >= 0 {
		n, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return id, fmt.Errorf("invalid nonce in %q", s)
		}
		id.Nonce = int32(n)
		s = s[:i]
	}

	if strings.HasSuffix(s, "?scheduled") {
		id.Scheduled = true
		s = strings.TrimSuffix(s, "?scheduled")
	}

	at := strings.Split(s, "@")
	if len(at) != 2 {
		return id, fmt.Errorf("expected payer@seconds.nanos, got %q", s)
	}

	account, err := AccountIDFromString(at[0])
	if err != nil {
		return id, err
	}
	id.AccountID = account

	ts := strings.Split(at[1], ".")
	if len(ts) != 2 {
		return id, fmt.Errorf("invalid valid start in %q", s)
	}
	secs, err := strconv.ParseInt(ts[0], 10, 64)
	if err != nil {
		return id, fmt.Errorf("invalid valid start in %q", s)
	}
	nanos, err := strconv.ParseInt(ts[1], 10, 32)
	if err != nil {
		return id, fmt.Errorf("invalid valid start in %q", s)
	}
	id.ValidStart = Timestamp{Seconds: secs, Nanos: int32(nanos)}

	return id, nil
}
