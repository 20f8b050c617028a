package aliexpress

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lukman83/kidkazz-storefront/internal/models"
)

// A record is one product encoded as 16 "~"-separated fields:
//
//	id ~ volume ~ image ~ title ~ sale price ~ original price ~ discount ~
//	cat1 name ~ cat1 id ~ cat2 name ~ cat2 id ~ small images ~ video ~
//	sku id ~ shop name ~ evaluate rate
//
// Small image URLs are joined with ",".
const (
	recordSep         = "~"
	recordImageSep    = ","
	recordFieldCount  = 16
	recordReplaceChar = " "
)

// EncodeRecord encodes the record projection of p. A "~" inside a field
// is replaced by a space so the field count stays fixed.
func EncodeRecord(p models.Product) string {
	fields := [recordFieldCount]string{
		p.ID,
		strconv.Itoa(p.Volume),
		p.MainImageURL,
		p.Title,
		p.SalePrice,
		p.OriginalPrice,
		p.Discount,
		p.FirstLevelCategory.Name,
		strconv.FormatInt(p.FirstLevelCategory.ID, 10),
		p.SecondLevelCategory.Name,
		strconv.FormatInt(p.SecondLevelCategory.ID, 10),
		strings.Join(p.SmallImageURLs, recordImageSep),
		p.VideoURL,
		p.SKUID,
		p.Shop.Name,
		p.EvaluateRate,
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, recordSep, recordReplaceChar)
	}
	return strings.Join(fields[:], recordSep)
}

// DecodeRecord decodes one record. It never fails: a short record leaves
// the missing trailing fields at their zero value, and blank or unparsable
// numbers decode as 0, so they re-encode as "0". Stars is derived from the evaluate rate and is 0 when the
// rate is absent or unparsable.
func DecodeRecord(s string) models.Product {
	parts := strings.Split(s, recordSep)
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	p := models.Product{
		ID:            field(0),
		Volume:        atoiOrZero(field(1)),
		MainImageURL:  field(2),
		Title:         field(3),
		SalePrice:     field(4),
		OriginalPrice: field(5),
		Discount:      field(6),
		FirstLevelCategory: models.Category{
			Name: field(7),
			ID:   parseIntOrZero(field(8)),
		},
		SecondLevelCategory: models.Category{
			Name: field(9),
			ID:   parseIntOrZero(field(10)),
		},
		VideoURL:     field(12),
		SKUID:        field(13),
		Shop:         models.Shop{Name: field(14)},
		EvaluateRate: field(15),
	}
	p.SecondLevelCategory.ParentID = p.FirstLevelCategory.ID
	if imgs := field(11); imgs != "" {
		p.SmallImageURLs = strings.Split(imgs, recordImageSep)
	}
	p.Stars = models.StarsFromRate(p.EvaluateRate)
	return p
}

// Shuffle returns a uniformly shuffled copy of products (Fisher-Yates).
// The input slice is left untouched.
func Shuffle(products []models.Product, rng *rand.Rand) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// EncodeRecords shuffles products and encodes each one. Display order is
// randomized on purpose, so two calls over the same input differ.
func EncodeRecords(products []models.Product, rng *rand.Rand) []string {
	shuffled := Shuffle(products, rng)
	out := make([]string, len(shuffled))
	for i, p := range shuffled {
		out[i] = EncodeRecord(p)
	}
	return out
}

// DecodeRecords decodes each record in order.
func DecodeRecords(records []string) []models.Product {
	out := make([]models.Product, len(records))
	for i, r := range records {
		out[i] = DecodeRecord(r)
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseIntOrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
