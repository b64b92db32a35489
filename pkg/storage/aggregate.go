package storage

import "textbook_market/pkg/models"

// CarbonSavedPerBookKg is the CO2-equivalent credited to each resold book.
const CarbonSavedPerBookKg = 2.5

// SellerRatingOf averages the ratings, rounded half up to one decimal. The
// rounding is done on integers so that e.g. 4.45 does not drift to 4.4.
func SellerRatingOf(reviews []models.Review) models.SellerRating {
	if len(reviews) == 0 {
		return models.SellerRating{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	count := len(reviews)
	return models.SellerRating{
		Average: float64(roundHalfUpTenths(sum, count)) / 10,
		Count:   count,
	}
}

// roundHalfUpTenths returns round(10*sum/count) with halves rounded toward
// positive infinity.
func roundHalfUpTenths(sum, count int) int {
	n, d := 20*sum+count, 2*count
	q := n / d
	if n%d != 0 && n < 0 {
		q--
	}
	return q
}

func TransactionStatsOf(soldBooks []models.Book) models.TransactionStats {
	stats := models.TransactionStats{TotalBooks: len(soldBooks)}
	for _, b := range soldBooks {
		stats.TotalValue += b.Price
	}
	stats.CarbonSaved = float64(stats.TotalBooks) * CarbonSavedPerBookKg
	return stats
}
