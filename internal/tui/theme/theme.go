package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tallard/campusreel/internal/media"
)

type Theme struct {
	Title        lipgloss.Style
	CategoryPill lipgloss.Style
	MetaLabel    lipgloss.Style
	MetaValue    lipgloss.Style
	CountBadge   lipgloss.Style
	Bookmarked   lipgloss.Style
	Toast        lipgloss.Style
	ToastError   lipgloss.Style
	Banner       lipgloss.Style
	PullHint     lipgloss.Style
	PullReady    lipgloss.Style
	Placeholder  lipgloss.Style
	Overlay      lipgloss.Style

	categoryAccents map[media.Category]lipgloss.Color
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpSky := lipgloss.Color("#89dceb")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(cpText),
		CategoryPill: lipgloss.NewStyle().Background(cpSurface0).Padding(0, 1),
		MetaLabel:    lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:    lipgloss.NewStyle().Foreground(cpSubtext1),
		CountBadge:   lipgloss.NewStyle().Foreground(cpYellow),
		Bookmarked:   lipgloss.NewStyle().Bold(true).Foreground(cpYellow),
		Toast:        lipgloss.NewStyle().Foreground(cpGreen),
		ToastError:   lipgloss.NewStyle().Foreground(cpRed),
		Banner:       lipgloss.NewStyle().Bold(true).Foreground(cpPeach),
		PullHint:     lipgloss.NewStyle().Foreground(cpOverlay1),
		PullReady:    lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		Placeholder:  lipgloss.NewStyle().Foreground(cpOverlay1),
		Overlay:      lipgloss.NewStyle().Foreground(cpText).Background(cpSurface0).Padding(0, 1),

		categoryAccents: map[media.Category]lipgloss.Color{
			media.CategoryTechnical:       cpTeal,
			media.CategoryCultural:        cpMauve,
			media.CategoryGuestTalks:      cpSky,
			media.CategoryInterCollege:    cpPeach,
			media.CategoryInterDepartment: cpLavender,
			media.CategorySports:          cpGreen,
		},
	}
}

// CategoryAccent is the per-category highlight color used for the pill
// and the active slot border.
func (t Theme) CategoryAccent(cat media.Category) lipgloss.Color {
	if accent, ok := t.categoryAccents[cat]; ok {
		return accent
	}
	return t.categoryAccents[media.CategoryTechnical]
}

func (t Theme) RenderCategoryPill(cat media.Category) string {
	return t.CategoryPill.Foreground(t.CategoryAccent(cat)).Render(string(cat))
}

func (t Theme) RenderBookmark(bookmarked bool) string {
	if bookmarked {
		return t.Bookmarked.Render("★ saved")
	}
	return t.MetaLabel.Render("☆ save")
}
