package catalog

import "time"

// Seed installs the two demo catalogs shipped with a fresh install: a
// public catalog backed by the placeholder document and a password
// protected one. Intended for empty stores only.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 {
		return
	}

	s.records = append(s.records,
		&Record{
			ID:           "1",
			Title:        "Catalogue Printemps 2024",
			Description:  "Découvrez notre nouvelle collection printemps avec plus de 200 produits tendance.",
			Category:     "Mode",
			Keywords:     []string{"mode", "printemps", "tendance", "collection"},
			Author:       "Fashion Store",
			Visibility:   VisibilityPublic,
			SourceRef:    "/sample-catalog.pdf",
			ThumbnailURL: "https://images.pexels.com/photos/1562477/pexels-photo-1562477.jpeg?auto=compress&cs=tinysrgb&w=400",
			FileSize:     15728640,
			PageCount:    48,
			Views:        1247,
			Downloads:    89,
			Shares:       23,
			UploadedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			ModifiedAt:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		&Record{
			ID:           "2",
			Title:        "Guide Technique 2024",
			Description:  "Manuel technique complet pour nos équipements industriels.",
			Category:     "Technique",
			Keywords:     []string{"technique", "manuel", "équipement", "industrie"},
			Author:       "TechCorp",
			Visibility:   VisibilityPassword,
			Password:     "tech2024",
			SourceRef:    "/technical-guide.pdf",
			ThumbnailURL: "https://images.pexels.com/photos/1181677/pexels-photo-1181677.jpeg?auto=compress&cs=tinysrgb&w=400",
			FileSize:     32505856,
			PageCount:    124,
			Views:        456,
			Downloads:    234,
			Shares:       12,
			UploadedAt:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			ModifiedAt:   time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		},
	)
}
