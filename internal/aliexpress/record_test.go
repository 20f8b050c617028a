package aliexpress

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedRecord = "1005006170839511~1234~https://ae01.alicdn.com/main.jpg~Wireless Earbuds~59.00~99.00~40%" +
	"~Consumer Electronics~44~Earphones~63705" +
	"~https://ae01.alicdn.com/a.jpg,https://ae01.alicdn.com/b.jpg" +
	"~https://video.aliexpress.com/v.mp4~12000036~Acme Store~96.5%"

func TestDecodeRecord(t *testing.T) {
	p := DecodeRecord(wellFormedRecord)

	assert.Equal(t, "1005006170839511", p.ID)
	assert.Equal(t, 1234, p.Volume)
	assert.Equal(t, "https://ae01.alicdn.com/main.jpg", p.MainImageURL)
	assert.Equal(t, "Wireless Earbuds", p.Title)
	assert.Equal(t, "59.00", p.SalePrice)
	assert.Equal(t, "99.00", p.OriginalPrice)
	assert.Equal(t, "40%", p.Discount)
	assert.Equal(t, models.Category{ID: 44, Name: "Consumer Electronics"}, p.FirstLevelCategory)
	assert.Equal(t, models.Category{ID: 63705, Name: "Earphones", ParentID: 44}, p.SecondLevelCategory)
	assert.Equal(t, []string{"https://ae01.alicdn.com/a.jpg", "https://ae01.alicdn.com/b.jpg"}, p.SmallImageURLs)
	assert.Equal(t, "https://video.aliexpress.com/v.mp4", p.VideoURL)
	assert.Equal(t, "12000036", p.SKUID)
	assert.Equal(t, "Acme Store", p.Shop.Name)
	assert.Equal(t, "96.5%", p.EvaluateRate)
	assert.InDelta(t, 4.8, p.Stars, 1e-9)
}

func TestRecordRoundTrip(t *testing.T) {
	assert.Equal(t, wellFormedRecord, EncodeRecord(DecodeRecord(wellFormedRecord)))

	noImages := strings.Replace(wellFormedRecord,
		"~https://ae01.alicdn.com/a.jpg,https://ae01.alicdn.com/b.jpg~", "~~", 1)
	assert.Equal(t, noImages, EncodeRecord(DecodeRecord(noImages)))
}

func TestRecordBlankNumbersNormalizeToZero(t *testing.T) {
	blank := "1~~img.jpg~Mug~5.00~10.00~~Home~~Kitchen~~~~~Acme Store~90%"
	want := "1~0~img.jpg~Mug~5.00~10.00~~Home~0~Kitchen~0~~~~Acme Store~90%"

	p := DecodeRecord(blank)
	assert.Zero(t, p.Volume)
	assert.Zero(t, p.FirstLevelCategory.ID)
	assert.Zero(t, p.SecondLevelCategory.ID)
	assert.Equal(t, want, EncodeRecord(p))
	assert.Equal(t, want, EncodeRecord(DecodeRecord(want)))
}

func TestDecodeShortRecordDefaults(t *testing.T) {
	p := DecodeRecord("42~7~img.jpg~Mug")

	assert.Equal(t, "42", p.ID)
	assert.Equal(t, 7, p.Volume)
	assert.Equal(t, "Mug", p.Title)
	assert.Empty(t, p.SalePrice)
	assert.Empty(t, p.Shop.Name)
	assert.Nil(t, p.SmallImageURLs)
	assert.Empty(t, p.EvaluateRate)
	assert.Zero(t, p.Stars)

	assert.NotPanics(t, func() { DecodeRecord("") })
	assert.NotPanics(t, func() { DecodeRecord("~~~not-a-number") })
}

func TestDecodeRecordRating(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"100%", 5.0},
		{"50%", 2.5},
		{"96.5%", 4.8},
		{"4.2", 4.2},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			p := DecodeRecord(strings.Repeat("~", recordFieldCount-1) + tt.rate)
			assert.InDelta(t, tt.want, p.Stars, 1e-9)
		})
	}
}

func TestEncodeRecordKeepsFieldCount(t *testing.T) {
	p := DecodeRecord(wellFormedRecord)
	p.Title = "Cable ~ 2m"

	enc := EncodeRecord(p)
	assert.Len(t, strings.Split(enc, recordSep), recordFieldCount)
	assert.Equal(t, "Cable   2m", DecodeRecord(enc).Title)
}

func sampleProducts(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: string(rune('a' + i)), Title: "p", SalePrice: "1.00"}
	}
	return out
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestShuffleIsPermutation(t *testing.T) {
	in := sampleProducts(10)
	before := ids(in)

	out := Shuffle(in, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, out, len(in))
	assert.Equal(t, before, ids(in), "input must not be modified")

	got := ids(out)
	sort.Strings(got)
	assert.Equal(t, before, got)
}

func TestShuffleReproducibleWithSeed(t *testing.T) {
	in := sampleProducts(12)
	a := Shuffle(in, rand.New(rand.NewPCG(7, 7)))
	b := Shuffle(in, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, ids(a), ids(b))
}

func TestEncodeRecordsShufflesAndEncodes(t *testing.T) {
	in := sampleProducts(5)
	records := EncodeRecords(in, rand.New(rand.NewPCG(3, 4)))
	require.Len(t, records, 5)

	decoded := ids(DecodeRecords(records))
	sort.Strings(decoded)
	assert.Equal(t, ids(in), decoded)

	assert.Empty(t, EncodeRecords(nil, rand.New(rand.NewPCG(1, 1))))
}
