package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#e76f51")
	heroEmberColor         = lipgloss.Color("#2a1209")
	heroTextColor          = lipgloss.Color("#fdf0d5")
	heroSecondaryTextColor = lipgloss.Color("#f4a261")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#e9c46a")).Padding(0, 1)
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	errorBoxStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
	emptyBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("244")).Padding(1, 2)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	selectedCardStyle  = cardStyle.BorderForeground(heroAccentColor)
	cardTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor)
	cardMetaStyle      = lipgloss.NewStyle().Foreground(heroSecondaryTextColor)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"┏━┓┏━╸┏━╸╻┏━┓┏━╸┏┓ ┏━┓╻ ╻",
		"┣┳┛┣╸ ┃  ┃┣━┛┣╸ ┣┻┓┃ ┃┏╋┛",
		"╹┗╸┗━╸┗━╸╹╹  ┗━╸┗━┛┗━┛╹ ╹",
	}
)
