package skeleton

// ParseDate converts an ICU date/time skeleton ("yMMMd", "EEEE HH:mm") into
// Intl.DateTimeFormat options. Letters are grouped into runs of the same
// pattern character; literals and quoted text are not allowed.
func ParseDate(s string) (Options, error) {
	var opts Options
	runes := []rune(s)
	offset := 0
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		n := j - i
		var err error
		opts, err = applyDateField(opts, runes[i], n, offset)
		if err != nil {
			return nil, err
		}
		offset += len(string(runes[i:j]))
		i = j
	}
	return opts, nil
}

func applyDateField(opts Options, field rune, n, offset int) (Options, error) {
	fail := func(reason string) (Options, error) {
		tok := make([]rune, n)
		for i := range tok {
			tok[i] = field
		}
		return nil, &SyntaxError{Offset: offset, Token: string(tok), Reason: reason}
	}
	switch field {
	case ' ', '\t', ',', ':', '-', '/', '.':
		// separators carry no options; Intl decides the layout
		return opts, nil
	case 'G':
		switch {
		case n <= 3:
			return opts.Set("era", "short"), nil
		case n == 4:
			return opts.Set("era", "long"), nil
		default:
			return opts.Set("era", "narrow"), nil
		}
	case 'y', 'Y', 'u':
		if n == 2 {
			return opts.Set("year", "2-digit"), nil
		}
		return opts.Set("year", "numeric"), nil
	case 'M', 'L':
		return opts.Set("month", widthStyle(n)), nil
	case 'd':
		return opts.Set("day", numericStyle(n)), nil
	case 'E':
		switch {
		case n <= 3:
			return opts.Set("weekday", "short"), nil
		case n == 4:
			return opts.Set("weekday", "long"), nil
		default:
			return opts.Set("weekday", "narrow"), nil
		}
	case 'e', 'c':
		if n < 3 {
			return fail("numeric weekday is not supported")
		}
		return applyDateField(opts, 'E', n, offset)
	case 'a':
		return opts.Set("hour12", true), nil
	case 'h':
		return opts.Set("hourCycle", "h12").Set("hour", numericStyle(n)), nil
	case 'H':
		return opts.Set("hourCycle", "h23").Set("hour", numericStyle(n)), nil
	case 'K':
		return opts.Set("hourCycle", "h11").Set("hour", numericStyle(n)), nil
	case 'k':
		return opts.Set("hourCycle", "h24").Set("hour", numericStyle(n)), nil
	case 'j', 'J', 'C':
		return opts.Set("hour", numericStyle(n)), nil
	case 'm':
		return opts.Set("minute", numericStyle(n)), nil
	case 's':
		return opts.Set("second", numericStyle(n)), nil
	case 'S':
		if n > 3 {
			return fail("at most three fractional second digits")
		}
		return opts.Set("fractionalSecondDigits", n), nil
	case 'z':
		if n < 4 {
			return opts.Set("timeZoneName", "short"), nil
		}
		return opts.Set("timeZoneName", "long"), nil
	case 'Z', 'O', 'v', 'V', 'X', 'x':
		return opts.Set("timeZoneName", "short"), nil
	case '\'':
		return fail("quoted literals are not allowed in skeletons")
	case 'w', 'W', 'D', 'F', 'g', 'Q', 'q', 'A', 'b', 'B':
		return fail("field is not supported by Intl.DateTimeFormat")
	}
	return fail("unknown date skeleton field")
}

func numericStyle(n int) string {
	if n == 2 {
		return "2-digit"
	}
	return "numeric"
}

func widthStyle(n int) string {
	switch n {
	case 1:
		return "numeric"
	case 2:
		return "2-digit"
	case 3:
		return "short"
	case 4:
		return "long"
	default:
		return "narrow"
	}
}
