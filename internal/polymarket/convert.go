package polymarket

import (
	"math"
	"time"

	"github.com/rickgao/polychart/internal/model"
)

// ToInstrument maps a Gamma market to a catalog instrument. The YES token
// is clobTokenIds[0] by CLOB convention; markets without tokens get an
// empty TokenID and are skipped by the refresher.
func (m *GammaMarket) ToInstrument(eventSlug string) model.Instrument {
	tokenID := ""
	if len(m.ClobTokenIDs) > 0 {
		tokenID = m.ClobTokenIDs[0]
	}

	return model.Instrument{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      eventSlug,
		TokenID:   tokenID,
		Volume:    float64(m.Volume),
		Active:    m.Active && !m.Closed,
		UpdatedAt: time.Now().Unix(),
	}
}

// ToSamples converts history points to model samples. Points must end up
// strictly increasing in T for the timeline transforms, so duplicates and
// out-of-order points from the upstream are dropped.
func ToSamples(points []HistoryPoint) []model.Sample {
	out := make([]model.Sample, 0, len(points))
	lastT := int64(math.MinInt64)

	for _, pt := range points {
		if pt.T <= lastT {
			continue
		}
		out = append(out, model.Sample{T: pt.T, P: pt.P})
		lastT = pt.T
	}

	return out
}
