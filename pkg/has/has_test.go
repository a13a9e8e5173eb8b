package has

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name  string
	Admin bool
}

func TestTags(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "<some <equal 3>>", Some().EqualTo(3).String())
	assert.Equal(t, "<exactcount 2 <greaterthan 1>>", Exactly(2).Items().GreaterThan(1).String())
	assert.Equal(t, "<propertyexists Name>", Property("Name").String())
	assert.Equal(t, `<property Name <equal "x">>`, Property("Name").EqualTo("x").String())
	assert.Equal(t, "<property Length <equal 0>>", Length().EqualTo(0).String())
	assert.Equal(t, "<none <null>>", None().Null().String())
	assert.Equal(t, "<contains 1>", Member(1).String())
	assert.Equal(t, `<containskey "k">`, Key("k").String())
}

func TestMatches(t *testing.T) {
	t.Parallel()
	users := []user{{"ann", true}, {"bob", false}}

	ok, err := Some().Property("Admin").True().Matches(users)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = One().Property("Admin").True().Matches(users)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = All().Property("Name").Length().EqualTo(3).Matches(users)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Count().EqualTo(2).Matches(users)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Value(2).Matches(map[string]int{"a": 2})
	require.NoError(t, err)
	assert.True(t, ok)
}
