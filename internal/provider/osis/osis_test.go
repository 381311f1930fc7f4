package osis_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/corpus/corpustest"
	"github.com/FocuswithJustin/versedistance/core/errors"
	"github.com/FocuswithJustin/versedistance/internal/provider/osis"
)

const containerDoc = `<?xml version="1.0" encoding="UTF-8"?>
<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
  <osisText osisIDWork="KJV">
    <div type="book" osisID="Gen">
      <chapter osisID="Gen.1">
        <verse osisID="Gen.1.1">In the beginning God created the heaven and the earth.</verse>
        <verse osisID="Gen.1.2">And the earth was without form,
          and void<note type="study">Hebrew: tohu</note>.</verse>
      </chapter>
    </div>
    <div type="book" osisID="1John">
      <chapter osisID="1John.4">
        <verse osisID="1John.4.8">He that loveth not knoweth not God; for <w lemma="G26">God is love</w>.</verse>
      </chapter>
    </div>
  </osisText>
</osis>`

const milestoneDoc = `<osis>
  <osisText>
    <div type="book" osisID="John">
      <chapter osisID="John.3">
        <title>Nicodemus</title>
        <verse sID="John.3.16.s" osisID="John.3.16"/>For God so loved the world,
        <q who="Jesus">that he gave his only begotten Son</q>.<verse eID="John.3.16.s"/>
        <verse sID="John.3.17.s" osisID="John.3.17"/>For God sent not his Son.<verse eID="John.3.17.s"/>
      </chapter>
    </div>
  </osisText>
</osis>`

func TestLoad_ContainerVerses(t *testing.T) {
	p, err := osis.Load(strings.NewReader(containerDoc), osis.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Genesis", "1 John"}, p.Books)
	require.Len(t, p.Verses, 3)

	assert.Equal(t, corpustest.Ref("Genesis", 1, 2), p.Verses[1].Reference)
	assert.Equal(t, "And the earth was without form, and void.", p.Verses[1].Text)
	assert.Equal(t, corpus.TextLength(p.Verses[1].Text), p.Verses[1].Length)

	assert.Equal(t, corpustest.Ref("1 John", 4, 8), p.Verses[2].Reference)
	assert.Equal(t, "He that loveth not knoweth not God; for God is love.", p.Verses[2].Text)

	idx, err := corpus.Build(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestLoad_MilestoneVerses(t *testing.T) {
	p, err := osis.Load(strings.NewReader(milestoneDoc), osis.Options{})
	require.NoError(t, err)

	require.Len(t, p.Verses, 2)
	assert.Equal(t, "For God so loved the world, that he gave his only begotten Son.", p.Verses[0].Text)
	assert.Equal(t, "For God sent not his Son.", p.Verses[1].Text)
}

func TestLoad_CustomTitles(t *testing.T) {
	p, err := osis.Load(strings.NewReader(containerDoc), osis.Options{Titles: map[string]string{"Gen": "Bereshit"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bereshit", "1John"}, p.Books)
	assert.Equal(t, "1John", p.Verses[2].Book)
}

func TestLoad_Malformed(t *testing.T) {
	tests := map[string]string{
		"not xml":       `<osis><div`,
		"no books":      `<osis><osisText/></osis>`,
		"bad osisID":    `<osis><div type="book" osisID="Gen"><verse osisID="Gen.one.1">x</verse></div></osis>`,
		"book mismatch": `<osis><div type="book" osisID="Gen"><verse osisID="Exod.1.1">x</verse></div></osis>`,
		"missing id":    `<osis><div type="book"><verse osisID="Gen.1.1">x</verse></div></osis>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := osis.Load(strings.NewReader(doc), osis.Options{})
			require.Error(t, err)
			assert.True(t, errors.IsIntegrityError(err), "got %v", err)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kjv.osis.xml")
	require.NoError(t, os.WriteFile(path, []byte(containerDoc), 0o600))

	p, err := osis.Open(path, osis.Options{})
	require.NoError(t, err)
	assert.Len(t, p.Verses, 3)

	_, err = osis.Open(filepath.Join(t.TempDir(), "missing.xml"), osis.Options{})
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
