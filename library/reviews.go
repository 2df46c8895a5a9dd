package library

// AddReview stores a member's rating of a book. The schema rejects ratings
// outside 1..5; review_date defaults to the insert time.
func (d *Database) AddReview(bookID, memberID int64, rating int, comment string) (int64, error) {
	return d.insertID(`
        INSERT INTO reviews (book_id, member_id, rating, comment)
        VALUES (?, ?, ?, ?)`, "review_id",
		bookID, memberID, rating, comment)
}

func (d *Database) ReviewsForBook(bookID int64) ([]*Review, error) {
	rows, err := d.db.Query(d.q(`
        SELECT review_id, book_id, member_id, rating, COALESCE(comment, ''), review_date
        FROM reviews
        WHERE book_id = ?
        ORDER BY review_date DESC, review_id DESC`), bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.BookID, &r.MemberID, &r.Rating, &r.Comment, &r.ReviewDate); err != nil {
			return nil, err
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

// AverageRating returns the mean rating for a book and the number of reviews
// it is based on. A book with no reviews yields (0, 0).
func (d *Database) AverageRating(bookID int64) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := d.db.QueryRow(d.q(`
        SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE book_id = ?`), bookID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
