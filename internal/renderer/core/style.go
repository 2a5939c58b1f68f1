package core

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrItalic              // Italic text
	AttrUnderline           // Straight underline
	AttrCurly               // Wavy underline, used for diagnostics
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute

	// Underline colors the underline when AttrUnderline or AttrCurly is set.
	Underline Color
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Underline:  ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a new style with attrs added.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// WithUnderline returns a new style with a colored underline.
func (s Style) WithUnderline(c Color, curly bool) Style {
	s.Underline = c
	if curly {
		s.Attributes |= AttrCurly
	} else {
		s.Attributes |= AttrUnderline
	}
	return s
}

// Merge layers other on top of s. Non-default colors in other win and
// attributes accumulate.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		if other.Background.A == 255 || result.Background.IsDefault() {
			result.Background = other.Background
		} else {
			result.Background = other.Background.Over(result.Background)
		}
	}
	if !other.Underline.IsDefault() {
		result.Underline = other.Underline
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Underline.Equals(other.Underline) &&
		s.Attributes == other.Attributes
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Equals(DefaultStyle())
}
