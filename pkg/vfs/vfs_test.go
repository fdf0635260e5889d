package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreloadsStubs(t *testing.T) {
	v := New()

	for _, path := range []string{
		"/lib.d.ts",
		"/node_modules/react/index.d.ts",
		"/node_modules/lucide-react/index.d.ts",
		"/node_modules/recharts/index.d.ts",
		"/lib/utils.ts",
		"/components/ui/button.d.ts",
		"/components/ui/card.d.ts",
	} {
		assert.True(t, v.Exists(path), "expected preloaded stub %s", path)
	}
}

func TestWriteReadDelete(t *testing.T) {
	v := New()

	v.Write("/App.tsx", "export default function App() {}")
	content, ok := v.Read("/App.tsx")
	require.True(t, ok)
	assert.Equal(t, "export default function App() {}", content)

	// Paths are normalized, so the leading slash is optional.
	content, ok = v.Read("App.tsx")
	require.True(t, ok)
	assert.Equal(t, "export default function App() {}", content)

	v.Delete("/App.tsx")
	assert.False(t, v.Exists("/App.tsx"))
}

func TestClearRestoresStubSet(t *testing.T) {
	v := New()
	baseline := v.Len()

	v.Write("/One.tsx", "one")
	v.Write("/Two.tsx", "two")
	require.Equal(t, baseline+2, v.Len())

	v.Clear()
	assert.Equal(t, baseline, v.Len())
	assert.False(t, v.Exists("/One.tsx"))
	assert.True(t, v.Exists("/node_modules/react/index.d.ts"))
}

func TestResolveModule(t *testing.T) {
	v := New()
	v.Write("/helpers/format.ts", "export const fmt = () => ''")

	tests := []struct {
		name      string
		specifier string
		from      string
		want      string
		wantOK    bool
	}{
		{
			name:      "relative import",
			specifier: "./format",
			from:      "/helpers/main.tsx",
			want:      "/helpers/format.ts",
			wantOK:    true,
		},
		{
			name:      "parent relative import",
			specifier: "../lib/utils",
			from:      "/components/App.tsx",
			want:      "/lib/utils.ts",
			wantOK:    true,
		},
		{
			name:      "root alias",
			specifier: "@/lib/utils",
			from:      "/App.tsx",
			want:      "/lib/utils.ts",
			wantOK:    true,
		},
		{
			name:      "alias to declaration file",
			specifier: "@/components/ui/button",
			from:      "/App.tsx",
			want:      "/components/ui/button.d.ts",
			wantOK:    true,
		},
		{
			name:      "bare package",
			specifier: "react",
			from:      "/App.tsx",
			want:      "/node_modules/react/index.d.ts",
			wantOK:    true,
		},
		{
			name:      "missing relative import",
			specifier: "./totally-missing",
			from:      "/App.tsx",
			wantOK:    false,
		},
		{
			name:      "missing package",
			specifier: "left-pad",
			from:      "/App.tsx",
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.ResolveModule(tt.specifier, tt.from)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
