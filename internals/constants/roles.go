package constants

import "fmt"

// Role yang dikenal di SiagaBencana
const (
	RoleUser      = "user"      // peserta pelatihan
	RoleTrainer   = "trainer"   // fasilitator/pelatih lapangan
	RoleAuthority = "authority" // instansi penanggulangan bencana (reviewer)
	RoleAdmin     = "admin"     // operator sistem
)

// Template pesan error role
const (
	ErrOnlyTrainersCanAccess  = "❌ Hanya trainer, authority, atau admin yang boleh mengakses fitur %s."
	ErrOnlyAuthorityCanAccess = "❌ Hanya authority yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyNonUserCanAccess   = "❌ Hanya role selain 'user' yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorTrainer(feature string) string {
	return fmt.Sprintf(ErrOnlyTrainersCanAccess, feature)
}

func RoleErrorAuthority(feature string) string {
	return fmt.Sprintf(ErrOnlyAuthorityCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorNonUser(feature string) string {
	return fmt.Sprintf(ErrOnlyNonUserCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleTrainer,
		RoleAuthority,
		RoleAdmin,
	}

	NonUserRoles = []string{
		RoleTrainer,
		RoleAuthority,
		RoleAdmin,
	}

	TrainerAndAbove = []string{
		RoleTrainer,
		RoleAuthority,
		RoleAdmin,
	}

	AuthorityAndAbove = []string{
		RoleAuthority,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
