// Package seed loads the demo users and projects used for local runs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
)

// DemoPassword is the password of every demo user.
const DemoPassword = "password"

var demoUsers = []domain.User{
	{Username: "superadmin", DisplayName: "Super Admin", Role: domain.RoleSuperAdmin},
	{Username: "kantor", DisplayName: "Admin Kantor", Role: domain.RoleOfficeAdmin},
	{Username: "lapangan", DisplayName: "Admin Lapangan", Role: domain.RoleFieldAdmin},
}

// Projects returns fresh copies of the demo projects.
func Projects() []*domain.Project {
	return []*domain.Project{
		{
			ID:                         "proj-1",
			Name:                       "Pembangunan Jembatan Merah Putih II",
			Description:                "Pembangunan jembatan gantung baru untuk menghubungkan dua kabupaten, meningkatkan konektivitas dan perekonomian regional.",
			StartDate:                  "2024-03-15",
			EndDate:                    "2025-08-30",
			Status:                     domain.StatusInProgress,
			Progress:                   35,
			WorkVolume:                 "1 Jembatan (500m)",
			TotalCost:                  15000000000,
			AssignedFieldAdminUsername: "lapangan",
			Updates: []domain.ProgressUpdate{
				{ID: "up-1-1", Date: "2024-06-20", Author: "Admin Lapangan", Summary: "Pekerjaan pondasi pilar utama selesai.", WorkDescription: "Pengecoran beton K-350 untuk pilar P1 dan P2 telah selesai 100%. Menunggu hasil uji tekan beton.", ProgressMade: 20, Verified: true},
				{ID: "up-1-2", Date: "2024-07-25", Author: "Admin Lapangan", Summary: "Fabrikasi rangka baja dek utama.", WorkDescription: "Fabrikasi segmen pertama dari rangka baja jembatan sedang berlangsung di workshop. Progres 15%.", ProgressMade: 15},
			},
		},
		{
			ID:          "proj-2",
			Name:        "Renovasi Stadion Gelora Nusantara",
			Description: "Modernisasi stadion utama termasuk penggantian rumput, peningkatan kapasitas tempat duduk, dan perbaikan fasilitas M&E.",
			StartDate:   "2024-05-01",
			EndDate:     "2024-12-01",
			Status:      domain.StatusInProgress,
			Progress:    60,
			WorkVolume:  "1 Stadion",
			TotalCost:   8500000000,
			Updates: []domain.ProgressUpdate{
				{ID: "up-2-1", Date: "2024-07-10", Author: "Super Admin", Summary: "Penggantian rumput lapangan selesai.", WorkDescription: "Rumput Zoysia Matrella telah terpasang di seluruh area lapangan utama. Sistem drainase juga sudah diuji.", ProgressMade: 40, Verified: true},
				{ID: "up-2-2", Date: "2024-08-05", Author: "Admin Kantor", Summary: "Pemasangan kursi tribun tahap 1.", WorkDescription: "Pemasangan 10.000 kursi baru di tribun timur telah selesai.", ProgressMade: 20, Verified: true},
			},
		},
		{
			ID:          "proj-3",
			Name:        "Pembangunan Rusunawa Cendana",
			Description: "Membangun satu tower rumah susun sewa untuk masyarakat berpenghasilan rendah, terdiri dari 15 lantai dan 250 unit.",
			StartDate:   "2024-08-01",
			EndDate:     "2025-11-15",
			Status:      domain.StatusNotStarted,
			WorkVolume:  "1 Tower (250 unit)",
			TotalCost:   45000000000,
			Updates:     []domain.ProgressUpdate{},
		},
		{
			ID:                         "proj-4",
			Name:                       "Proyek Irigasi Sawah Makmur",
			Description:                "Perbaikan dan pembangunan saluran irigasi primer dan sekunder untuk mengairi 500 hektar sawah.",
			StartDate:                  "2024-04-01",
			EndDate:                    "2024-09-30",
			Status:                     domain.StatusCompleted,
			Progress:                   100,
			WorkVolume:                 "Saluran irigasi 15km",
			TotalCost:                  5000000000,
			AssignedFieldAdminUsername: "lapangan",
			Updates: []domain.ProgressUpdate{
				{ID: "up-4-1", Date: "2024-07-15", Author: "Admin Lapangan", Summary: "Penggalian saluran primer selesai.", WorkDescription: "Penggalian tanah untuk saluran primer sepanjang 5km telah mencapai 100%.", ProgressMade: 50, Verified: true},
				{ID: "up-4-2", Date: "2024-08-20", Author: "Admin Lapangan", Summary: "Pemasangan lining beton saluran.", WorkDescription: "Pemasangan lining beton pracetak untuk mencegah kebocoran telah selesai di semua saluran.", ProgressMade: 50, Verified: true},
			},
		},
	}
}

// Load stores the demo users, with secrets produced by enc, and the demo
// projects. Users that already exist are left alone.
func Load(ctx context.Context, users ports.UserRepository, projects ports.ProjectRepository, enc ports.PasswordEncoder) error {
	for _, u := range demoUsers {
		secret, err := enc.Encode(DemoPassword)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		u.Secret = secret
		if _, err := users.Create(ctx, &u); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	if err := projects.CreateMany(ctx, Projects()); err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}
	return nil
}
