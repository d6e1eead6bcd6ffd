package form

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/vcionboard/pkg/defaults"
)

// counterGenerator returns a new value on every call
type counterGenerator struct {
	calls int
}

func (g *counterGenerator) Sentinel() string    { return "*COUNTER" }
func (g *counterGenerator) Description() string { return "increasing counter" }
func (g *counterGenerator) Generate() (string, error) {
	g.calls++
	return "value-" + strconv.Itoa(g.calls), nil
}

func TestReconciler_Reconcile(t *testing.T) {
	t.Run("wallet values are read-only", func(t *testing.T) {
		r := NewReconciler(testSchema())

		res, err := r.Reconcile(Payload{KeyFirstName: "Jan", KeyLastName: "Jansen", "extra": "dropped"})
		require.NoError(t, err)

		assert.Equal(t, "Jan", res.Payload[KeyFirstName])
		assert.Equal(t, "Jansen", res.Payload[KeyLastName])
		assert.Equal(t, "", res.Payload[KeyEmail])
		assert.NotContains(t, res.Payload, "extra")
		assert.Equal(t, []string{KeyLastName, KeyFirstName}, res.ReadOnly.Keys())
		assert.Equal(t, []string{KeyEmail}, res.Unsatisfied)
	})

	t.Run("whitespace is not wallet sourced", func(t *testing.T) {
		r := NewReconciler(testSchema())

		res, err := r.Reconcile(Payload{KeyFirstName: "  "})
		require.NoError(t, err)
		assert.False(t, res.ReadOnly.Has(KeyFirstName))
		assert.Contains(t, res.Unsatisfied, KeyFirstName)
	})

	t.Run("no schema uses fallback keys", func(t *testing.T) {
		r := NewReconciler(nil)

		res, err := r.Reconcile(Payload{KeyEmail: "jan@example.com", "other": "x"})
		require.NoError(t, err)
		assert.Len(t, res.Payload, 3)
		assert.Equal(t, "jan@example.com", res.Payload[KeyEmail])
		assert.True(t, res.ReadOnly.Has(KeyEmail))
		assert.Equal(t, []string{KeyLastName, KeyFirstName}, res.Unsatisfied)
	})

	t.Run("literal default", func(t *testing.T) {
		schema := &Schema{Rows: []Row{{{Key: "country", DefaultValue: "NL"}}}}
		r := NewReconciler(schema)

		res, err := r.Reconcile(Payload{})
		require.NoError(t, err)
		assert.Equal(t, "NL", res.Payload["country"])
		assert.False(t, res.ReadOnly.Has("country"))
		assert.Empty(t, res.Unsatisfied)
	})

	t.Run("unknown sentinel", func(t *testing.T) {
		schema := &Schema{Rows: []Row{{{Key: "x", DefaultValue: "*RANDOM9"}}}}

		_, err := NewReconciler(schema).Reconcile(Payload{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x")
	})
}

func TestReconciler_Random8Idempotent(t *testing.T) {
	schema := testSchema()
	r := NewReconciler(schema)
	source := Payload{KeyFirstName: "Jan"}

	first, err := r.Reconcile(source)
	require.NoError(t, err)

	generated := first.Payload["customerId"]
	require.Len(t, generated, 8)
	n, err := strconv.Atoi(generated)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 10000000)
	assert.LessOrEqual(t, n, 99999999)
	assert.Equal(t, generated, source["customerId"], "generated value is cached into the source")
	assert.False(t, first.ReadOnly.Has("customerId"))

	second, err := r.Reconcile(source)
	require.NoError(t, err)
	assert.Equal(t, generated, second.Payload["customerId"])
	assert.False(t, second.ReadOnly.Has("customerId"), "generated defaults never become read-only")
	assert.True(t, second.ReadOnly.Has(KeyFirstName))
}

func TestReconciler_BlankSourceKeepsGeneratedDefault(t *testing.T) {
	r := NewReconciler(testSchema())

	first, err := r.Reconcile(Payload{})
	require.NoError(t, err)
	generated := first.Payload["customerId"]
	require.NotEmpty(t, generated)

	for _, blank := range []string{"", "   "} {
		res, err := r.Reconcile(Payload{"customerId": blank})
		require.NoError(t, err)
		assert.Equal(t, generated, res.Payload["customerId"], "blank %q must not drop the generated value", blank)
	}

	res, err := r.Reconcile(Payload{"customerId": "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "12345678", res.Payload["customerId"])
	assert.False(t, res.ReadOnly.Has("customerId"))
}

func TestReconciler_GeneratesOnce(t *testing.T) {
	gen := &counterGenerator{}
	registry := defaults.NewRegistry()
	registry.Register(gen)

	schema := &Schema{Rows: []Row{{{Key: "ref", DefaultValue: "*COUNTER"}}}}
	r := NewReconciler(schema, WithGenerators(registry))

	for i := 0; i < 3; i++ {
		res, err := r.Reconcile(nil)
		require.NoError(t, err)
		assert.Equal(t, "value-1", res.Payload["ref"])
	}
	assert.Equal(t, 1, gen.calls)
}

func TestReconciler_RandomIBAN(t *testing.T) {
	schema := &Schema{Rows: []Row{{{Key: "iban", DefaultValue: defaults.SentinelRandomIBAN}}}}

	res, err := NewReconciler(schema).Reconcile(Payload{})
	require.NoError(t, err)
	assert.True(t, defaults.ValidIBAN(res.Payload["iban"]), "got %q", res.Payload["iban"])
}

func TestReconciler_EmailRoundTrip(t *testing.T) {
	schema := &Schema{Rows: []Row{{{Key: "email", Type: TypeEmail}}}}

	res, err := NewReconciler(schema).Reconcile(Payload{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", res.Payload["email"])
	assert.True(t, res.ReadOnly.Has("email"))

	res, err = NewReconciler(schema).Reconcile(Payload{})
	require.NoError(t, err)
	assert.Equal(t, "", res.Payload["email"])
	assert.False(t, res.ReadOnly.Has("email"))
}
