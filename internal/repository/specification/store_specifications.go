package specification

import "gorm.io/gorm"

// ByPhoneSuffix matches stores whose phone ends with the given digits.
// Sender resolution compares trailing digits so that "+91 98765 43210",
// "919876543210" and "09876543210" all land on the same store.
type ByPhoneSuffix struct {
	Suffix string
}

func (s ByPhoneSuffix) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phone LIKE ?", "%"+s.Suffix)
}
