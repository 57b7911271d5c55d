package exercise

// Rule categories of the built-in catalog.
const (
	RuleAtExactTime   = "at_exact_time"
	RuleAtHoliday     = "at_holiday"
	RuleAtDayMoment   = "at_day_moment"
	RuleOnWeekday     = "on_weekday"
	RuleOnExactDate   = "on_exact_date"
	RuleOnWeekdayPart = "on_weekday_part"
	RuleInMonth       = "in_month"
	RuleInYear        = "in_year"
	RuleInDayPart     = "in_day_part"
	RuleInSeason      = "in_season"
)

var hints = map[string]string{
	RuleAtExactTime:   "Exact time: at 5 PM, at noon, at midnight",
	RuleAtHoliday:     "Holidays: at Christmas, at Easter",
	RuleAtDayMoment:   "Moments of the day: at night, at sunrise",
	RuleOnWeekday:     "Days of the week: on Monday, on Friday",
	RuleOnExactDate:   "Dates: on March 15th",
	RuleOnWeekdayPart: "Parts of a named day: on Monday morning",
	RuleInMonth:       "Months: in January",
	RuleInYear:        "Years: in 2024",
	RuleInDayPart:     "Parts of the day: in the morning, in the evening",
	RuleInSeason:      "Seasons: in summer",
}

var rulesByPreposition = map[Preposition][]string{
	At: {RuleAtExactTime, RuleAtHoliday, RuleAtDayMoment},
	On: {RuleOnWeekday, RuleOnExactDate, RuleOnWeekdayPart},
	In: {RuleInMonth, RuleInYear, RuleInDayPart, RuleInSeason},
}

// Hint returns the explanation for a rule category, or "" if unknown.
func Hint(rule string) string {
	return hints[rule]
}

// Rules returns the rule categories that p covers.
func Rules(p Preposition) []string {
	src := rulesByPreposition[p]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func ex(id int, sentence string, answer Preposition, rule string) Exercise {
	return Exercise{
		ID:            id,
		Sentence:      sentence,
		CorrectAnswer: answer,
		Options:       []Preposition{At, On, In},
		RuleCategory:  rule,
	}
}

var defaultCatalog = MustNewCatalog([]Exercise{
	ex(1, "I wake up ___ 7 AM every day", At, RuleAtExactTime),
	ex(2, "My birthday is ___ March", In, RuleInMonth),
	ex(3, "We have a meeting ___ Monday", On, RuleOnWeekday),
	ex(4, "The concert starts ___ midnight", At, RuleAtExactTime),
	ex(5, "She was born ___ 1995", In, RuleInYear),
	ex(6, "Let's meet ___ Friday afternoon", On, RuleOnWeekdayPart),
	ex(7, "I go to the gym ___ the evening", In, RuleInDayPart),
	ex(8, "The store closes ___ 9 PM", At, RuleAtExactTime),
	ex(9, "We usually travel ___ summer", In, RuleInSeason),
	ex(10, "The exam is ___ December 15th", On, RuleOnExactDate),
	ex(11, "The train leaves ___ 6:45", At, RuleAtExactTime),
	ex(12, "We open presents ___ Christmas", At, RuleAtHoliday),
	ex(13, "The whole family gathers ___ Easter", At, RuleAtHoliday),
	ex(14, "Owls hunt ___ night", At, RuleAtDayMoment),
	ex(15, "We left the camp ___ sunrise", At, RuleAtDayMoment),
	ex(16, "The shop is closed ___ Sunday", On, RuleOnWeekday),
	ex(17, "Her party is ___ July 4th", On, RuleOnExactDate),
	ex(18, "The project started ___ 3 May 2021", On, RuleOnExactDate),
	ex(19, "I play football ___ Saturday mornings", On, RuleOnWeekdayPart),
	ex(20, "We had dinner together ___ Tuesday evening", On, RuleOnWeekdayPart),
	ex(21, "The new term begins ___ September", In, RuleInMonth),
	ex(22, "It often snows here ___ January", In, RuleInMonth),
	ex(23, "The company was founded ___ 2010", In, RuleInYear),
	ex(24, "People first walked on the Moon ___ 1969", In, RuleInYear),
	ex(25, "I drink coffee ___ the morning", In, RuleInDayPart),
	ex(26, "She usually studies ___ the afternoon", In, RuleInDayPart),
	ex(27, "The leaves fall ___ autumn", In, RuleInSeason),
	ex(28, "Many birds fly south ___ winter", In, RuleInSeason),
	ex(29, "Lunch is served ___ noon", At, RuleAtExactTime),
	ex(30, "Kids get gifts ___ New Year", At, RuleAtHoliday),
	ex(31, "We have a test ___ Wednesday", On, RuleOnWeekday),
	ex(32, "The stars come out ___ dusk", At, RuleAtDayMoment),
})

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}
