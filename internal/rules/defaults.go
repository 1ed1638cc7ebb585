package rules

// Default bilingual (German/English) pattern sets. Config may override any
// of these lists; patterns are authored against diacritic-folded text.

func DefaultExclude() []string {
	return []string{
		`\b(internship|praktikum|werkstudent|working\s*student|pflichtpraktikum)\b`,
		`\b(junior|trainee|azubi|ausbildung)\b`,
		`\b(unpaid|volunteer|ehrenamt)\b`,
	}
}

func DefaultInclude() []string {
	return []string{
		// C-level
		`\b(chief\s+(data|ai|analytics)\s+officer|cdo|caio)\b`,
		// VP / Director, either word order
		`\b(vp|vice\s*president|director|direktor)\b.*\b(data|ai|analytics|ml|bi|machine\s*learning|data\s*science)\b`,
		`\b(data|ai|analytics|ml|bi|machine\s*learning|data\s*science)\b.*\b(vp|vice\s*president|director|direktor)\b`,
		// Head of
		`\bhead\s+of\b.*\b(data|ai|analytics|bi|machine\s*learning|data\s*science|engineering)\b`,
		// Leiter variants; no trailing \b on the domain words so German
		// compounds like Datenmanagement still match
		`\b(leiter|bereichsleiter|abteilungsleiter)\b.*(daten|data|analytics|bi\b|ki\b|ai\b)`,
		`(daten|data|analytics|bi\b|ki\b|ai\b).*\b(leiter|bereichsleiter|abteilungsleiter)\b`,
		// Manager
		`\bmanager\b.*\b(data|analytics|ai|ml|bi|data\s*science)\b`,
		`\b(data|analytics|ai|ml|bi|data\s*science)\b.*\bmanager\b`,
		// Team / tech lead
		`\b(team|tech)\s*lead\b.*\b(data|ai|analytics|ml|bi)\b`,
		`\bteamleiter\b.*(daten|data|analytics|bi\b|ki\b|ai\b)`,
		`\blead\b.*\b(data|ai|analytics|ml|engineer|scientist|architect)\b`,
		// Strategy / governance / platform
		`\b(data|ai)\s+(strategy|governance|platform)\b`,
	}
}

func DefaultRemote() []string {
	return []string{
		`\b(100|90|80)\s*%?\s*remote\b`,
		`\bfully\s*remote\b`,
		`\bremote\s*(first|only)\b`,
		`\bvollstandig\s*remote\b`,
	}
}

// DefaultLocal covers the Rheinland core around Monheim.
func DefaultLocal() []string {
	return []string{
		`\b(dusseldorf|koln|cologne|bonn|leverkusen|wuppertal|solingen)\b`,
		`\b(neuss|dormagen|langenfeld|monheim|hilden|ratingen|mettmann)\b`,
		`\b(bergisch\s*gladbach|erkrath|haan|burscheid|leichlingen)\b`,
		`\bnrw\b|nordrhein|rheinland`,
	}
}
