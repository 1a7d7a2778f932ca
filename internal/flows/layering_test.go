package flows_test

import (
	"testing"

	"farmcore/testutil"
)

func TestLayering(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", "flows goes through core, not transports or concrete stores",
		testutil.TransportImport, testutil.InfraImport)
}
