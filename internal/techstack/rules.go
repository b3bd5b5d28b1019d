package techstack

// Kind says which TechStack list a rule feeds.
type Kind int

const (
	Framework Kind = iota
	Tool
)

// Category groups tools for the quality heuristics.
type Category string

const (
	CategoryNone   Category = ""
	CategoryLint   Category = "lint"
	CategoryTest   Category = "test"
	CategoryEnv    Category = "env"
	CategoryBuild  Category = "build"
	CategoryDeploy Category = "deploy"
)

// languageNames maps file extensions to display names.
var languageNames = map[string]string{
	".js":     "JavaScript",
	".mjs":    "JavaScript Module",
	".cjs":    "CommonJS",
	".jsx":    "JSX",
	".ts":     "TypeScript",
	".tsx":    "TSX",
	".py":     "Python",
	".java":   "Java",
	".kt":     "Kotlin",
	".go":     "Go",
	".rb":     "Ruby",
	".php":    "PHP",
	".rs":     "Rust",
	".c":      "C",
	".h":      "C Header",
	".cpp":    "C++",
	".cs":     "C#",
	".swift":  "Swift",
	".dart":   "Dart",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".less":   "Less",
	".vue":    "Vue",
	".svelte": "Svelte",
	".json":   "JSON",
	".yml":    "YAML",
	".yaml":   "YAML",
	".xml":    "XML",
	".md":     "Markdown",
	".sh":     "Shell",
	".sql":    "SQL",
}

// manifestRule emits Name when any of Candidates is a declared dependency.
type manifestRule struct {
	Name       string
	Kind       Kind
	Category   Category
	Candidates []string
}

// manifestRules is evaluated in order; output order follows it.
var manifestRules = []manifestRule{
	{Name: "React", Kind: Framework, Candidates: []string{"react"}},
	{Name: "Next.js", Kind: Framework, Candidates: []string{"next"}},
	{Name: "Vue.js", Kind: Framework, Candidates: []string{"vue"}},
	{Name: "Nuxt", Kind: Framework, Candidates: []string{"nuxt", "nuxt3"}},
	{Name: "Angular", Kind: Framework, Candidates: []string{"@angular/core"}},
	{Name: "Svelte", Kind: Framework, Candidates: []string{"svelte", "@sveltejs/kit"}},
	{Name: "Express", Kind: Framework, Candidates: []string{"express"}},
	{Name: "Koa", Kind: Framework, Candidates: []string{"koa"}},
	{Name: "Fastify", Kind: Framework, Candidates: []string{"fastify"}},
	{Name: "NestJS", Kind: Framework, Candidates: []string{"@nestjs/core"}},
	{Name: "Gatsby", Kind: Framework, Candidates: []string{"gatsby"}},
	{Name: "Remix", Kind: Framework, Candidates: []string{"@remix-run/react", "@remix-run/node"}},
	{Name: "jQuery", Kind: Framework, Candidates: []string{"jquery"}},
	{Name: "Electron", Kind: Framework, Candidates: []string{"electron"}},
	{Name: "React Native", Kind: Framework, Candidates: []string{"react-native"}},

	{Name: "TypeScript", Kind: Tool, Category: CategoryBuild, Candidates: []string{"typescript"}},
	{Name: "ESLint", Kind: Tool, Category: CategoryLint, Candidates: []string{"eslint"}},
	{Name: "TSLint", Kind: Tool, Category: CategoryLint, Candidates: []string{"tslint"}},
	{Name: "StandardJS", Kind: Tool, Category: CategoryLint, Candidates: []string{"standard"}},
	{Name: "Biome", Kind: Tool, Category: CategoryLint, Candidates: []string{"@biomejs/biome"}},
	{Name: "Stylelint", Kind: Tool, Category: CategoryLint, Candidates: []string{"stylelint"}},
	{Name: "Prettier", Kind: Tool, Candidates: []string{"prettier"}},
	{Name: "Jest", Kind: Tool, Category: CategoryTest, Candidates: []string{"jest", "ts-jest"}},
	{Name: "Mocha", Kind: Tool, Category: CategoryTest, Candidates: []string{"mocha"}},
	{Name: "Vitest", Kind: Tool, Category: CategoryTest, Candidates: []string{"vitest"}},
	{Name: "Jasmine", Kind: Tool, Category: CategoryTest, Candidates: []string{"jasmine", "jasmine-core"}},
	{Name: "AVA", Kind: Tool, Category: CategoryTest, Candidates: []string{"ava"}},
	{Name: "Cypress", Kind: Tool, Category: CategoryTest, Candidates: []string{"cypress"}},
	{Name: "Playwright", Kind: Tool, Category: CategoryTest, Candidates: []string{"@playwright/test", "playwright"}},
	{Name: "Testing Library", Kind: Tool, Category: CategoryTest, Candidates: []string{"@testing-library/react", "@testing-library/vue", "@testing-library/dom"}},
	{Name: "Webpack", Kind: Tool, Category: CategoryBuild, Candidates: []string{"webpack"}},
	{Name: "Vite", Kind: Tool, Category: CategoryBuild, Candidates: []string{"vite"}},
	{Name: "Babel", Kind: Tool, Category: CategoryBuild, Candidates: []string{"@babel/core", "babel-core"}},
	{Name: "Tailwind CSS", Kind: Tool, Candidates: []string{"tailwindcss"}},
	{Name: "Sass", Kind: Tool, Candidates: []string{"sass", "node-sass"}},
	{Name: "Redux", Kind: Tool, Candidates: []string{"@reduxjs/toolkit", "redux"}},
	{Name: "Axios", Kind: Tool, Candidates: []string{"axios"}},
	{Name: "Mongoose", Kind: Tool, Candidates: []string{"mongoose"}},
	{Name: "Prisma", Kind: Tool, Candidates: []string{"@prisma/client", "prisma"}},
	{Name: "Sequelize", Kind: Tool, Candidates: []string{"sequelize"}},
	{Name: "Dotenv", Kind: Tool, Category: CategoryEnv, Candidates: []string{"dotenv"}},
	{Name: "Nodemon", Kind: Tool, Candidates: []string{"nodemon"}},
	{Name: "Husky", Kind: Tool, Candidates: []string{"husky"}},
	{Name: "Storybook", Kind: Tool, Candidates: []string{"storybook", "@storybook/react"}},
	{Name: "Serverless Framework", Kind: Tool, Category: CategoryDeploy, Candidates: []string{"serverless"}},
	{Name: "AWS CDK", Kind: Tool, Category: CategoryDeploy, Candidates: []string{"aws-cdk-lib", "aws-cdk"}},
}

// patternRule emits Name when a scanned path ends with or contains Pattern.
type patternRule struct {
	Pattern  string
	Name     string
	Kind     Kind
	Category Category
}

// patternRules is evaluated in order; several patterns may share a Name.
var patternRules = []patternRule{
	{Pattern: ".jsx", Name: "React", Kind: Framework},
	{Pattern: ".tsx", Name: "React", Kind: Framework},
	{Pattern: "next.config.", Name: "Next.js", Kind: Framework},
	{Pattern: ".vue", Name: "Vue.js", Kind: Framework},
	{Pattern: "nuxt.config.", Name: "Nuxt", Kind: Framework},
	{Pattern: "angular.json", Name: "Angular", Kind: Framework},
	{Pattern: ".svelte", Name: "Svelte", Kind: Framework},
	{Pattern: "manage.py", Name: "Django", Kind: Framework},
	{Pattern: "config/routes.rb", Name: "Ruby on Rails", Kind: Framework},

	{Pattern: "tsconfig.json", Name: "TypeScript", Kind: Tool, Category: CategoryBuild},
	{Pattern: ".eslintrc", Name: "ESLint", Kind: Tool, Category: CategoryLint},
	{Pattern: "eslint.config.", Name: "ESLint", Kind: Tool, Category: CategoryLint},
	{Pattern: "tslint.json", Name: "TSLint", Kind: Tool, Category: CategoryLint},
	{Pattern: "biome.json", Name: "Biome", Kind: Tool, Category: CategoryLint},
	{Pattern: ".stylelintrc", Name: "Stylelint", Kind: Tool, Category: CategoryLint},
	{Pattern: ".prettierrc", Name: "Prettier", Kind: Tool},
	{Pattern: "prettier.config.", Name: "Prettier", Kind: Tool},
	{Pattern: "jest.config.", Name: "Jest", Kind: Tool, Category: CategoryTest},
	{Pattern: ".mocharc", Name: "Mocha", Kind: Tool, Category: CategoryTest},
	{Pattern: "vitest.config.", Name: "Vitest", Kind: Tool, Category: CategoryTest},
	{Pattern: "cypress.config.", Name: "Cypress", Kind: Tool, Category: CategoryTest},
	{Pattern: "playwright.config.", Name: "Playwright", Kind: Tool, Category: CategoryTest},
	{Pattern: "pytest.ini", Name: "pytest", Kind: Tool, Category: CategoryTest},
	{Pattern: "webpack.config.", Name: "Webpack", Kind: Tool, Category: CategoryBuild},
	{Pattern: "vite.config.", Name: "Vite", Kind: Tool, Category: CategoryBuild},
	{Pattern: ".babelrc", Name: "Babel", Kind: Tool, Category: CategoryBuild},
	{Pattern: "babel.config.", Name: "Babel", Kind: Tool, Category: CategoryBuild},
	{Pattern: "tailwind.config.", Name: "Tailwind CSS", Kind: Tool},
	{Pattern: "Dockerfile", Name: "Docker", Kind: Tool, Category: CategoryDeploy},
	{Pattern: "docker-compose.", Name: "Docker Compose", Kind: Tool, Category: CategoryDeploy},
	{Pattern: ".github/workflows/", Name: "GitHub Actions", Kind: Tool, Category: CategoryDeploy},
	{Pattern: ".gitlab-ci.yml", Name: "GitLab CI", Kind: Tool, Category: CategoryDeploy},
	{Pattern: "serverless.yml", Name: "Serverless Framework", Kind: Tool, Category: CategoryDeploy},
	{Pattern: "cdk.json", Name: "AWS CDK", Kind: Tool, Category: CategoryDeploy},
	{Pattern: "template.yaml", Name: "AWS SAM", Kind: Tool, Category: CategoryDeploy},
	{Pattern: "main.tf", Name: "Terraform", Kind: Tool, Category: CategoryDeploy},
	{Pattern: ".husky/", Name: "Husky", Kind: Tool},
	{Pattern: "requirements.txt", Name: "pip", Kind: Tool, Category: CategoryBuild},
	{Pattern: "go.mod", Name: "Go Modules", Kind: Tool, Category: CategoryBuild},
	{Pattern: "Cargo.toml", Name: "Cargo", Kind: Tool, Category: CategoryBuild},
	{Pattern: "pom.xml", Name: "Maven", Kind: Tool, Category: CategoryBuild},
	{Pattern: "build.gradle", Name: "Gradle", Kind: Tool, Category: CategoryBuild},
	{Pattern: "Gemfile", Name: "Bundler", Kind: Tool, Category: CategoryBuild},
}

// categories indexes every tool name to its category.
var categories = func() map[string]Category {
	m := make(map[string]Category)
	for _, r := range manifestRules {
		if r.Kind == Tool {
			m[r.Name] = r.Category
		}
	}
	for _, r := range patternRules {
		if r.Kind == Tool {
			m[r.Name] = r.Category
		}
	}
	return m
}()

// CategoryOf returns the category of a detected tool name.
func CategoryOf(name string) Category {
	return categories[name]
}
