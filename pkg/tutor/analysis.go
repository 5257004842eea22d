package tutor

import "strings"

// 本文件是提交代码的静态启发式分析。刻意保持简单：按文本特征估计
// 复杂度与覆盖情况，不解析语法树。具体公式是可替换的业务逻辑，
// 评估记录的结构与持久化语义才是稳定契约。

// ============== 复杂度估计 ==============

// complexityRanks 复杂度等级，越大越差
var complexityRanks = map[string]int{
	"O(1)":       0,
	"O(log n)":   1,
	"O(n)":       2,
	"O(n log n)": 3,
	"O(n^2)":     4,
	"O(n^3)":     5,
	"O(2^n)":     6,
}

func complexityRank(c string) int {
	if r, ok := complexityRanks[c]; ok {
		return r
	}
	return complexityRanks["O(n log n)"]
}

// estimateTimeComplexity 按循环嵌套深度与排序调用估计时间复杂度
func estimateTimeComplexity(code string) string {
	nest := maxLoopNesting(code)
	usesSort := strings.Contains(code, "sort(") ||
		strings.Contains(code, "sort.") ||
		strings.Contains(code, ".sort") ||
		strings.Contains(code, "sorted(")

	switch {
	case nest >= 3:
		return "O(n^3)"
	case nest == 2:
		return "O(n^2)"
	case usesSort:
		return "O(n log n)"
	case nest == 1:
		return "O(n)"
	default:
		return "O(1)"
	}
}

// estimateSpaceComplexity 按分配特征估计空间复杂度
func estimateSpaceComplexity(code string) string {
	allocTokens := []string{"make(", "new(", "append(", "map[", "dict(", "list(", "= []", "= {}"}
	for _, tok := range allocTokens {
		if strings.Contains(code, tok) {
			return "O(n)"
		}
	}
	return "O(1)"
}

// scoreComplexity 比较实际与期望复杂度
//
// 不差于期望得满分，每差一级扣 0.25，下限 0.2。
func scoreComplexity(actual, expected string) float64 {
	diff := complexityRank(actual) - complexityRank(expected)
	if diff <= 0 {
		return 1.0
	}
	score := 1.0 - 0.25*float64(diff)
	if score < 0.2 {
		return 0.2
	}
	return score
}

// maxLoopNesting 估计最大循环嵌套深度
//
// 有花括号的语言按花括号深度配对循环；无花括号的按缩进链配对。
func maxLoopNesting(code string) int {
	if strings.Contains(code, "{") {
		return braceLoopNesting(code)
	}
	return indentLoopNesting(code)
}

func isLoopLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "for ") ||
		strings.HasPrefix(trimmed, "for(") ||
		strings.HasPrefix(trimmed, "while ") ||
		strings.HasPrefix(trimmed, "while(") ||
		strings.HasPrefix(trimmed, "do ") ||
		strings.Contains(trimmed, ".forEach(")
}

func braceLoopNesting(code string) int {
	depth := 0
	maxNest := 0
	var loopDepths []int

	for _, line := range strings.Split(code, "\n") {
		if isLoopLine(strings.TrimSpace(line)) {
			loopDepths = append(loopDepths, depth)
			if len(loopDepths) > maxNest {
				maxNest = len(loopDepths)
			}
		}
		for _, r := range line {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				for len(loopDepths) > 0 && loopDepths[len(loopDepths)-1] >= depth {
					loopDepths = loopDepths[:len(loopDepths)-1]
				}
			}
		}
	}
	return maxNest
}

func indentLoopNesting(code string) int {
	maxNest := 0
	var indents []int

	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if !isLoopLine(trimmed) {
			continue
		}
		for len(indents) > 0 && indents[len(indents)-1] >= indent {
			indents = indents[:len(indents)-1]
		}
		indents = append(indents, indent)
		if len(indents) > maxNest {
			maxNest = len(indents)
		}
	}
	return maxNest
}

// ============== 边界情况覆盖 ==============

// edgeCaseCoverage 检查代码对题目边界情况的处理痕迹
//
// 无声明的边界情况视为满分。
func edgeCaseCoverage(code string, cases []string) EdgeCaseScore {
	if len(cases) == 0 {
		return EdgeCaseScore{Covered: []string{}, Missed: []string{}, Score: 1.0}
	}

	lower := strings.ToLower(code)
	covered := make([]string, 0, len(cases))
	missed := make([]string, 0, len(cases))
	for _, ec := range cases {
		if coversEdgeCase(lower, ec) {
			covered = append(covered, ec)
		} else {
			missed = append(missed, ec)
		}
	}

	return EdgeCaseScore{
		Covered: covered,
		Missed:  missed,
		Score:   float64(len(covered)) / float64(len(cases)),
	}
}

func coversEdgeCase(lowerCode, ec string) bool {
	for _, w := range strings.Fields(strings.ToLower(ec)) {
		w = strings.Trim(w, ".,")
		if len(w) >= 4 && strings.Contains(lowerCode, w) {
			return true
		}
	}
	// 空输入的覆盖也可以通过长度守卫体现
	if strings.Contains(strings.ToLower(ec), "empty") {
		return strings.Contains(lowerCode, "len(") && strings.Contains(lowerCode, "0")
	}
	return false
}

// ============== 正确性与质量 ==============

// scoreCorrectness 按结构特征估计正确性
func scoreCorrectness(code string, problem *CodingProblem) float64 {
	lower := strings.ToLower(code)
	score := 0.4

	if strings.Contains(lower, "return") {
		score += 0.2
	}
	if strings.Contains(lower, "if ") || strings.Contains(lower, "if(") {
		score += 0.2
	}

	conceptHits := 0.0
	for _, concept := range problem.Concepts {
		for _, w := range strings.Fields(strings.ToLower(concept)) {
			if len(w) >= 3 && strings.Contains(lower, w) {
				conceptHits += 0.1
				break
			}
		}
	}
	if conceptHits > 0.2 {
		conceptHits = 0.2
	}
	score += conceptHits

	if score > 1.0 {
		return 1.0
	}
	return score
}

// scoreQuality 按行宽、注释与结构估计质量分面
func scoreQuality(code string) QualityScore {
	lines := strings.Split(code, "\n")

	total := 0
	longest := 0
	commented := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if len(line) > longest {
			longest = len(line)
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "/*") || strings.Contains(trimmed, "// ") {
			commented = true
		}
	}

	readability := 1.0
	switch {
	case longest > 120:
		readability = 0.4
	case longest > 100:
		readability = 0.6
	case longest > 80:
		readability = 0.8
	}

	maintainability := 0.6
	if commented {
		maintainability += 0.2
	}
	if total <= 40 {
		maintainability += 0.2
	}

	bestPractices := 0.7
	if !strings.Contains(code, "goto ") && !strings.Contains(code, "eval(") {
		bestPractices += 0.15
	}
	if commented {
		bestPractices += 0.15
	}

	return QualityScore{
		Readability:     readability,
		Maintainability: maintainability,
		BestPractices:   bestPractices,
	}
}

// qualityAverage 质量分面的平均值
func qualityAverage(q QualityScore) float64 {
	return (q.Readability + q.Maintainability + q.BestPractices) / 3
}
