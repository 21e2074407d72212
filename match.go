package antmaster

// Match is a species paired with its similarity score (0..100) against a
// search term.
type Match struct {
	Species    *Species
	Similarity float64
}
