package store

import "github.com/yourusername/library-circulation/pkg/model"

// SeedDemo loads a small demo catalog and roster through the public
// operations, so the seeded state satisfies the same invariants as any
// other state. One book starts out on loan.
func SeedDemo(s *Store) error {
	books := []model.Book{
		{
			ID: "b1", Title: "The Three-Body Problem", Author: "Cixin Liu",
			ISBN: "9787536692930", Category: "Science Fiction",
			Publisher: "Chongqing Press", PublishDate: "2008-01",
			Status: model.BookAvailable, Location: "A-SF-001",
			CoverURL:    "https://picsum.photos/200/300?random=1",
			Description: "The rise and fall of earthly civilization across the cosmos.",
			Price:       23.00,
		},
		{
			ID: "b2", Title: "React and Redux in Depth", Author: "Mo Cheng",
			ISBN: "9787111565586", Category: "Computer Science",
			Publisher: "China Machine Press", PublishDate: "2017-05",
			Status: model.BookAvailable, Location: "T-CS-102",
			CoverURL:    "https://picsum.photos/200/300?random=2",
			Description: "An essential read for web front-end developers.",
			Price:       69.00,
		},
		{
			ID: "b3", Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez",
			ISBN: "9787544253994", Category: "Foreign Literature",
			Publisher: "Nanhai Publishing", PublishDate: "2011-06",
			Status: model.BookAvailable, Location: "L-FL-088",
			CoverURL:    "https://picsum.photos/200/300?random=3",
			Description: "The landmark of magical realism.",
			Price:       39.50,
		},
		{
			ID: "b4", Title: "Sapiens: A Brief History of Humankind", Author: "Yuval Noah Harari",
			ISBN: "9787508647357", Category: "History",
			Publisher: "CITIC Press", PublishDate: "2014-11",
			Status: model.BookAvailable, Location: "H-HI-005",
			CoverURL:    "https://picsum.photos/200/300?random=4",
			Description: "From animals into gods: the story of our species.",
			Price:       68.00,
		},
		{
			ID: "b5", Title: "Design Patterns", Author: "Erich Gamma",
			ISBN: "9787111075752", Category: "Computer Science",
			Publisher: "China Machine Press", PublishDate: "2000-09",
			Status: model.BookMaintenance, Location: "T-CS-305",
			CoverURL:    "https://picsum.photos/200/300?random=5",
			Description: "The software engineering classic.",
			Price:       35.00,
		},
	}
	for _, b := range books {
		if err := s.AddBook(b); err != nil {
			return err
		}
	}

	readers := []model.Reader{
		{
			ID: "r1", Name: "Zhang San", Type: model.ReaderStudent,
			Email: "zhangsan@example.com", Phone: "13800138000",
			RegisteredDate: "2023-09-01",
			AvatarURL:      "https://picsum.photos/100/100?random=10",
			Status:         model.ReaderActive,
		},
		{
			ID: "r2", Name: "Li Si", Type: model.ReaderTeacher,
			Email: "lisi@example.com", Phone: "13900139000",
			RegisteredDate: "2022-03-15",
			AvatarURL:      "https://picsum.photos/100/100?random=11",
			Status:         model.ReaderActive,
		},
	}
	for _, r := range readers {
		if err := s.AddReader(r); err != nil {
			return err
		}
	}

	// b2 starts out checked out, as in the demo dataset.
	if _, err := s.BorrowBook("b2", "r1"); err != nil {
		return err
	}
	return nil
}
