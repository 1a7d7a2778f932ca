package entitymodel

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"farmcore/internal/entitymodel/sqlbundle"
)

var versionOnce = sync.OnceValue(func() string {
	h := sha256.New()
	h.Write([]byte(sqlbundle.SQLite()))
	h.Write([]byte{0})
	h.Write([]byte(sqlbundle.Postgres()))
	return "sha256:" + hex.EncodeToString(h.Sum(nil))[:16]
})

// Version fingerprints the DDL bundles. It changes whenever either dialect's
// schema changes.
func Version() string {
	return versionOnce()
}
