package domain_test

import (
	"testing"

	"farmcore/testutil"
)

func TestDomainDependsOnStdlibOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", "domain types stay dependency free",
		testutil.ThirdPartyImport, testutil.InternalImport)
}
