package tutor

// seedProblems 初始题目目录
//
// 目录在首次空读时一次性写入；id 使用固定 slug，保证重复播种时
// 覆盖而不是累积。
func seedProblems() []CodingProblem {
	return []CodingProblem{
		{
			ID:          "two-sum",
			Title:       "Two Sum",
			Description: "Given an array of integers and a target, return the indices of the two numbers that add up to the target.",
			Difficulty:  "easy",
			Categories:  []string{"arrays", "hash-tables"},
			Examples: []ProblemExample{
				{Input: "nums=[2,7,11,15], target=9", Output: "[0,1]", Explanation: "2 + 7 = 9"},
			},
			Constraints:   []string{"2 <= len(nums) <= 10^4", "exactly one solution exists"},
			ExpectedTime:  "O(n)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"hash map", "complement lookup"},
			EdgeCases:     []string{"duplicate values", "negative numbers"},
		},
		{
			ID:          "reverse-string",
			Title:       "Reverse String",
			Description: "Reverse a string in place using two pointers.",
			Difficulty:  "easy",
			Categories:  []string{"strings", "two-pointers"},
			Examples: []ProblemExample{
				{Input: `"hello"`, Output: `"olleh"`},
			},
			ExpectedTime:  "O(n)",
			ExpectedSpace: "O(1)",
			Concepts:      []string{"two pointers", "in-place swap"},
			EdgeCases:     []string{"empty string", "single character"},
		},
		{
			ID:          "valid-parentheses",
			Title:       "Valid Parentheses",
			Description: "Determine whether a string of brackets is balanced and properly nested.",
			Difficulty:  "easy",
			Categories:  []string{"strings", "stacks"},
			Examples: []ProblemExample{
				{Input: `"([]{})"`, Output: "true"},
				{Input: `"(]"`, Output: "false"},
			},
			ExpectedTime:  "O(n)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"stack", "matching pairs"},
			EdgeCases:     []string{"empty string", "unmatched closing bracket"},
		},
		{
			ID:          "max-subarray",
			Title:       "Maximum Subarray",
			Description: "Find the contiguous subarray with the largest sum.",
			Difficulty:  "medium",
			Categories:  []string{"arrays", "dynamic-programming"},
			Examples: []ProblemExample{
				{Input: "[-2,1,-3,4,-1,2,1,-5,4]", Output: "6", Explanation: "[4,-1,2,1]"},
			},
			ExpectedTime:  "O(n)",
			ExpectedSpace: "O(1)",
			Concepts:      []string{"kadane", "running sum"},
			EdgeCases:     []string{"all negative numbers", "single element"},
		},
		{
			ID:          "binary-search",
			Title:       "Binary Search",
			Description: "Search for a target value in a sorted array and return its index, or -1 if absent.",
			Difficulty:  "easy",
			Categories:  []string{"arrays", "binary-search"},
			Examples: []ProblemExample{
				{Input: "nums=[-1,0,3,5,9,12], target=9", Output: "4"},
			},
			ExpectedTime:  "O(log n)",
			ExpectedSpace: "O(1)",
			Concepts:      []string{"binary search", "sorted invariant"},
			EdgeCases:     []string{"empty array", "target not present"},
		},
		{
			ID:          "merge-intervals",
			Title:       "Merge Intervals",
			Description: "Merge all overlapping intervals and return the non-overlapping result.",
			Difficulty:  "medium",
			Categories:  []string{"arrays", "sorting"},
			Examples: []ProblemExample{
				{Input: "[[1,3],[2,6],[8,10]]", Output: "[[1,6],[8,10]]"},
			},
			ExpectedTime:  "O(n log n)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"sorting", "interval overlap"},
			EdgeCases:     []string{"single interval", "fully contained interval"},
		},
		{
			ID:          "lru-cache",
			Title:       "LRU Cache",
			Description: "Design a least-recently-used cache supporting get and put in constant time.",
			Difficulty:  "hard",
			Categories:  []string{"hash-tables", "linked-lists", "design"},
			Examples: []ProblemExample{
				{Input: "put(1,1), put(2,2), get(1), put(3,3), get(2)", Output: "1, -1"},
			},
			ExpectedTime:  "O(1)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"hash map", "doubly linked list", "eviction"},
			EdgeCases:     []string{"capacity of one", "update existing key"},
		},
		{
			ID:          "course-schedule",
			Title:       "Course Schedule",
			Description: "Given course prerequisites, determine whether all courses can be finished.",
			Difficulty:  "medium",
			Categories:  []string{"graphs", "topological-sort"},
			Examples: []ProblemExample{
				{Input: "numCourses=2, prerequisites=[[1,0]]", Output: "true"},
			},
			ExpectedTime:  "O(n)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"cycle detection", "topological order"},
			EdgeCases:     []string{"no prerequisites", "self-dependency cycle"},
		},
		{
			ID:          "word-ladder",
			Title:       "Word Ladder",
			Description: "Find the length of the shortest transformation sequence from one word to another, changing one letter at a time.",
			Difficulty:  "hard",
			Categories:  []string{"graphs", "breadth-first-search", "strings"},
			Examples: []ProblemExample{
				{Input: `begin="hit", end="cog", list=["hot","dot","dog","lot","log","cog"]`, Output: "5"},
			},
			ExpectedTime:  "O(n^2)",
			ExpectedSpace: "O(n)",
			Concepts:      []string{"bfs", "implicit graph"},
			EdgeCases:     []string{"end word not in list", "begin equals end"},
		},
	}
}

// synthesizeProblem 按需合成通用题目
//
// 目录无匹配时的既定策略，不作为错误路径。
func synthesizeProblem(difficulty string, categories []string) CodingProblem {
	if difficulty == "" {
		difficulty = "medium"
	}
	category := "general"
	if len(categories) > 0 {
		category = categories[0]
	}

	return CodingProblem{
		ID:         "generated-" + difficulty + "-" + category,
		Title:      "Practice: " + category,
		Difficulty: difficulty,
		Categories: []string{category},
		Description: "Write a function that processes a collection of inputs in the " +
			category + " domain and returns the aggregated result. Focus on correct handling of boundary inputs.",
		ExpectedTime:  "O(n)",
		ExpectedSpace: "O(n)",
		Concepts:      []string{category},
		EdgeCases:     []string{"empty input", "single element"},
	}
}
