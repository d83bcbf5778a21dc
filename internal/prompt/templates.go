package prompt

// DivergentIdeas asks for wildly different product metaphors to seed
// the design space.
var DivergentIdeas = &Template{
	Name:     "divergent ideas",
	Required: []string{"context", "user", "goal", "tasks"},
	Optional: map[string]string{"examples": noExamples, "userComments": noUserComments},
	Text: `SYSTEM:
You are an expert UX strategist and creative thinker. Generate wildly different UI design ideas for the given context.

ASSISTANT:
Brainstorm at least 15 wildly different product metaphors or paradigms that could inform the design of this application. Each idea should represent a fundamentally different approach to solving the user's problem.

Context: {context}
User: {user}
Goal: {goal}
Tasks: {tasks}
Examples: {examples}
User Comments: {userComments}

Requirements:
- Generate at least 15 different ideas
- Ideas should be relevant to the context, user type, goal, and tasks
- Consider the examples provided (if any) for inspiration but don't limit yourself to them
- If user comments are provided, consider the feedback and preferences mentioned
- Focus on high-level conceptual approaches, not implementation details

Format the output as a JSON array where each idea object has these fields:
- idea_id: A unique integer identifier
- idea_name: A short, descriptive name for the metaphor/paradigm
- description: A brief explanation of how this metaphor/paradigm would work for this application
- inspiration: How this idea relates to the context, user, goal, or examples provided

Example format (do not include this in your response):
[
  {
    "idea_id": 1,
    "idea_name": "Command Center",
    "description": "A centralized hub where users can monitor, control, and orchestrate all their activities through a unified control panel interface.",
    "inspiration": "Addresses the need for centralized management and quick access to all tools, similar to how a command center manages complex operations."
  }
]

IMPORTANT:
- Your response must be a valid JSON array. Do not include any text before or after the JSON.
- Do not mark the response as JSON using "~~~json".
- Do not include any backticks, code fences, or language tags. Return only the raw JSON array.
- Generate at least 10 ideas, but you can generate more if inspired.
- Each idea should be conceptually distinct from the others.
`,
}

// DesignSpaceFromIdeas condenses the divergent ideas into exactly three
// orthogonal design dimensions.
var DesignSpaceFromIdeas = &Template{
	Name:     "design space",
	Required: []string{"divergentIdeas", "context", "user", "goal", "tasks"},
	Optional: map[string]string{"examples": noExamples, "userComments": noUserComments},
	Text: `SYSTEM:
You are an expert UX strategist. Analyze the provided divergent ideas and create a high-level, conceptual design space using descriptive, plain language that is easy to understand for a non-designer, such as a product manager, software engineer, or UX researcher.

ASSISTANT:
Analyze the following divergent ideas and create a design space by following these steps:

STEP 1 - Analyze Ideas
- Review all the provided ideas and identify common themes, tensions, and patterns
- Look for fundamental UX-related differences

STEP 2 - Identify Dimensions
- Group the ideas into 3 orthogonal design dimensions, each expressing a fundamental tension, role, or workflow shift
- Each dimension should capture a meaningful choice that affects the user's experience
- For every dimension, write one brief sentence explaining why it matters

STEP 3 - Create Options
- For each dimension, list no more than 3 options that sit at clearly different points along that spectrum
- Each option should represent a distinct approach along the dimension--it should be clear how one option is different from the others
- For each option, give one-sentence description to help a non-designer understand the option

Divergent Ideas:
{divergentIdeas}

Context: {context}
User: {user}
Goal: {goal}
Tasks: {tasks}
Examples: {examples}
User Comments: {userComments}

Requirements:
- Create exactly 3 design dimensions
- Each dimension should be clearly distinct and relevant to the context
- Each dimension's description should be concise, ideally one sentence, framed as question to prompt a non-designer, such as a product manager, software engineer, or UX researcher, to consider which option is most appropriate for the application.
- Each dimension should have 3-5 options that represent meaningful alternatives--the option names should use plain language and be easy to understand for a non-designer, such as a product manager, software engineer, or UX researcher.
- Exclude dimensions limited to low-level design details such as information density, styling, or minor control placement
- Use the divergent ideas as inspiration for the dimensions and options
- Consider how the examples and user comments inform the design space

IMPORTANT:
- Your response must be a valid JSON array. Do not include any text before or after the JSON.
- Do not mark the response as JSON using "~~~json".
- Do not include any backticks, code fences, or language tags. Return only the raw JSON array.
- Each dimension should be clearly distinct and relevant to the context.
- Each option should be a meaningful alternative within its dimension.
- Base your dimensions and options on the provided divergent ideas.
`,
}

// OverallDesign produces five high-level design concepts for one point
// in the design space.
var OverallDesign = &Template{
	Name:     "overall design",
	Required: []string{"designParameters"},
	Optional: map[string]string{"userComments": noUserComments},
	Text: `Analyze the following information and follow the specific design parameters and user comments to generate 5 distinct high-level design concepts that can support the user to accomplish their goal by performing the tasks. These design ideas should directly address each of the following design parameters:

Design Parameters: {designParameters}

User Comments: {userComments}

Format the output as a JSON array where each design object has these fields:
- design_id: A unique integer identifier
- design_name: A highly-descriptive short sentence for the design: one should be able to understand the design from the name without reading the rest of the design concept
- core_concept: Describing the main design approach---importantly, how it addresses each of the design parameters, formatted as a list of bullet points
- detailed_description: A detailed description of the design concept for a UX designer to understand and implement into specific screens

IMPORTANT:
- Your response must be a valid JSON array. Do not include any text before or after the JSON.
- Do not mark the response as JSON using "~~~json".
- Do not include any backticks, code fences, or language tags. Return only the raw JSON array.
- Consider the user comments when generating designs to better align with user preferences and feedback.
`,
}

// TaskwiseScreenDescriptions describes, for one batch of tasks, the
// screens needed to complete them under a given overall design.
var TaskwiseScreenDescriptions = &Template{
	Name:     "taskwise screen descriptions",
	Required: []string{"overallDesign", "tasks"},
	Text: `Analyze the following overall design of an application. Then, for each task, generate a description of the screens that are needed to complete the task. Each screen description should consist of 2-3 sentences and include specific details about the screen's purpose, UI elements, and functionality.

Overall Design: {overallDesign}
Tasks: {tasks}

For each screen description, include:
- Purpose: What the screen is for and what users accomplish on it
- Elements: Specific UI elements like buttons, forms, lists, navigation, etc. (can be nested objects or arrays)
- Functionality: What actions users can perform and how the screen behaves
- Layout: How elements are organized and positioned
- Interactions: How users navigate to/from this screen and interact with elements

Make each description detailed enough for a UX designer to create the screen.
`,
}

// MergeScreenDescriptions unifies the per-task screen descriptions into
// a minimal set of conceptual screens.
var MergeScreenDescriptions = &Template{
	Name:     "merge screens",
	Required: []string{"screenDescriptions"},
	Text: `You are a UX design assistant helping define the core structure of an application. I will provide several user tasks, each with a sequence of screens the user navigates to complete the task. Your job is to analyze these task flows and propose a unified set of conceptual screens that support all the tasks, while minimizing redundancy and preserving key functionality. Use as few screens as possible.

Your output should consist of high-level screen concepts, not implementation details. Focus on the main idea of each screen, including its role in the workflow, core elements, and essential interactions. Avoid overly detailed layouts or exhaustive UI specifications.

For each screen, describe:

- title: A short, descriptive name for the screen
- purpose: What users achieve on this screen and why it's necessary
- core_elements: A brief list of major components (e.g., search bar, content list, form section)--only what's essential to the screen's purpose
- key_interactions: Main actions users can perform and navigation to/from this screen
- data_notes: (Optional) Brief notes on what data is shown or collected, only if essential to understanding the screen

Keep descriptions concise and focused. This is for early-stage design--sufficient for creating low-fidelity wireframes or sketching out user flows.

Task-Specific Screen Descriptions:
{screenDescriptions}

Return a JSON array of screen objects that unify overlapping functionality, clarify intent, and remain general enough to guide low-fi prototyping.

Format the output as a JSON array where each screen object has these fields:
- title: A short, descriptive name for the screen
- purpose: What users achieve on this screen and why it's necessary
- core_elements: A brief list of major components (e.g., search bar, content list, form section)--only what's essential to the screen's purpose
- key_interactions: Main actions users can perform and navigation to/from this screen
- data_notes: (Optional) Brief notes on what data is shown or collected, only if essential to understanding the screen

Example format (do not include this in your response):
[
  {
    "title": "Dashboard",
    "purpose": "Main overview screen showing key metrics and quick access to main features",
    "core_elements": ["metrics cards", "navigation menu", "quick action buttons"],
    "key_interactions": ["click navigation items", "view detailed metrics", "access quick actions"],
    "data_notes": "Displays summary statistics and recent activity"
  }
]

IMPORTANT:
- Your response must be a valid JSON array. Do not include any text before or after the JSON.
- Do not mark the response as JSON using "~~~json".
- Do not include any backticks, code fences, or language tags. Return only the raw JSON array.
`,
}

// TaskScreenMapping assigns each task an ordered sequence of screen
// indices with per-screen interactions.
var TaskScreenMapping = &Template{
	Name:     "task screen mapping",
	Required: []string{"tasks", "screenDescriptions"},
	Text: `Given the following tasks and formatted screen descriptions, determine which sequence of screens is needed to complete each task. Use the screen indices (0-based) to reference the screens.

Tasks:
{tasks}

Formatted Screen Descriptions:
{screenDescriptions}

For each task:
- Analyze which screens are needed to complete the task
- Include the indices of all the necessary screens in the order they should be visited; the indices should not exceed the number of screens available; each task must have at least one screen
- Usually a given screen does not appear more than once in a task
- Format the output as a JSON object with a tasksWithScreens array, where each object has:
   - task: the task description
   - screens: array of screen indices in the order they should be visited--cannot be empty and cannot exceed the number of screens available
- Each screen should be used by at least one task

IMPORTANT:
- Your response must be a valid JSON object. Do not include any text before or after the JSON. Do not mark the response as JSON using "~~~json".
- Each screen should be used by at least one task.

Example format:
{
  "tasksWithScreens": [
    {
      "task": "Task 1 description",
      "screens": [
        {"screen_id": 0, "interaction": "describe what the user does on this screen to progress to the next screen"},
        {"screen_id": 1, "interaction": "describe what the user does on this screen to progress to the next screen"},
        {"screen_id": 3, "interaction": "describe what the user does on this screen to progress to the next screen"},
        {"screen_id": 4, "interaction": "describe what the user does on this screen to progress to the next screen"}
      ]
    },
    {
      "task": "Task 2 description",
      "screens": [
        {"screen_id": 0, "interaction": "describe what the user does on this screen to progress to the next screen"},
        {"screen_id": 2, "interaction": "describe what the user does on this screen to progress to the next screen"},
        {"screen_id": 5, "interaction": "describe what the user does on this screen to progress to the next screen"}
      ]
    }
  ]
}
`,
}

// SVGCodeGeneration renders one screen description into a hand-drawn
// style SVG wireframe.
var SVGCodeGeneration = &Template{
	Name:     "svg generation",
	Required: []string{"screenDescription"},
	Optional: map[string]string{"userComments": noUserComments},
	Text: `ROLE & GOAL:
You are an expert UI wire-framing assistant. Produce one complete, valid SVG that looks like a hand-drawn wireframe of the screen described below.

SCREEN DESCRIPTION:
{screenDescription}

USER COMMENTS & PREFERENCES:
{userComments}

MUST-HAVE ELEMENTS & BEHAVIORS:
- Include every UI element listed in "elements".
- Implement every behavior in "functionality".
- Consider the user's comments and preferences when designing the wireframe layout and style.

STYLE & FORMAT RULES:
1. Root <svg> must include a proper viewBox.
2. Every attribute value must be fully quoted (d, x, y, width, height, etc.).
3. No unclosed quotes; no stray characters before or after quotes.
4. Each <path> must contain a complete d="...".
5. Use stroke and fill attributes; avoid CSS classes.
6. Use Comic Sans MS font and gray-scale colors only (#000 - #FFF) plus transparent fills.
7. OUTPUT ONLY THE SVG MARKUP -- no prose, no code fences.
`,
}

// TaskFlowGeneration identifies, per screen in a task's sequence, the
// SVG snippet of the element the user interacts with to move forward.
var TaskFlowGeneration = &Template{
	Name:     "task flow",
	Required: []string{"task", "uiCodes", "screenInteractions"},
	Text: `Given a task, the SVG UI codes for a sequence of screens needed to complete the task, and the screen interactions describing what the user does on each screen, identify the one interactive element (sometimes a few more) that the user needs to interact with on each screen to proceed to the next screen.

Task: {task}
SVG UI Codes for relevant screens:
{uiCodes}
Screen Interactions:
{screenInteractions}

Requirements:
- For each screen, use the provided screen interaction description to determine which element(s) should be interacted with to transition to the next screen(s). The interaction description tells you what the user does on this screen.
- Extract the complete SVG code snippet for the identified interactive element(s), including all attributes in a way that I can use it to retrieve the element from the SVG code.
- For each screen, output an array of SVG code snippets for the identified interactive element(s), including its nested elements, if any
- Be specific, avoid selecting too many elements or elements that contain many other elements
- Match the interaction description to the appropriate UI elements in the SVG code

IMPORTANT:
- Do not select elements that contain many other elements. Never select the entire svg.
- Your response must be a valid JSON array. Do not include any text before or after the JSON.
- Do not mark the response as JSON using "~~~json".
- Extract the complete SVG element code, including all attributes and nested elements
- The output array must have exactly the same length as the input uiCodes array
- If no clear interactive element is found, include an empty array for that screen
- Focus on elements that match the described user interaction (e.g., if interaction says "click button", look for button elements)
`,
}

// CritiqueToChanges translates free-form critiques into a concrete
// change list to apply to an SVG.
var CritiqueToChanges = &Template{
	Name:     "critique to changes",
	Required: []string{"originalUICode", "critiques"},
	Optional: map[string]string{"userComments": noUserComments},
	Text: `Analyze the provided critiques and translate them into specific, actionable changes to make to the SVG UI code. For each critique, identify the exact changes needed.

Original SVG Code:
{originalUICode}

Critiques to Address:
{critiques}

User Comments & Preferences:
{userComments}

Context:
The target is SVG code that represents a wireframe UI mockup. This is a hand-drawn style wireframe.

Requirements:
- For each critique, identify the specific UI element using the ui_element information
- Translate each critique into concrete, specific changes to make
- Be precise about what needs to be modified (position, size, text, styling, etc.)
- Specify exact values where possible (e.g., "move button 20px to the right", "change text from 'Submit' to 'Save'")
- Focus on the specific element mentioned in each critique
- Don't suggest changes to elements not mentioned in critiques
- Consider the context of the UI element and its purpose
- Changes should maintain the wireframe aesthetic (hand-drawn style, grayscale colors)
- Consider user comments and preferences when determining the best approach to implementing changes
- Apply user feedback to influence design decisions and improvements

Types of Changes Allowed:
1) Add UI elements - Create new SVG elements (rect, circle, text, line, etc.) to add missing UI components
2) Modify existing UI elements - Change position, size, text content, styling, or attributes of existing elements
3) Remove existing UI elements - Delete SVG elements that are no longer needed or are problematic

Output Format:
Return a JSON array of changes, where each change object has:
{
  "ui_element": "element identifier from critique",
  "critique": "original critique text",
  "changes": [
    {
      "type": "add|modify|remove",
      "description": "specific change to make",
      "target": "what to change (e.g., 'x attribute', 'text content', 'stroke width', 'add new button', 'remove redundant element')",
      "value": "new value or specific instruction",
      "svg_element": "for add: specify SVG element type (rect, circle, text, line, etc.) and attributes"
    }
  ]
}

IMPORTANT:
- Return only valid JSON. Do not include any explanations or text before or after.
- Be specific and actionable in the changes.
- Focus only on elements mentioned in critiques.
- Each change should be implementable in SVG code.
- Maintain wireframe aesthetic (hand-drawn style, grayscale colors, Comic Sans font).
- For 'add' changes, specify the complete SVG element with attributes.
- For 'modify' changes, specify exact attribute changes.
- For 'remove' changes, identify the element to delete.
- Consider user comments when making design decisions and improvements.
`,
}

// ApplyChangesToSVG applies a concrete change list to an SVG without
// touching anything else.
var ApplyChangesToSVG = &Template{
	Name:     "apply changes",
	Required: []string{"originalUICode", "changes"},
	Optional: map[string]string{"userComments": noUserComments},
	Text: `Apply the specified changes to the SVG UI code. Make only the exact changes requested while preserving everything else.

Original SVG Code:
{originalUICode}

Changes to Apply:
{changes}

User Comments & Preferences:
{userComments}

Requirements:
- Apply only the specific changes listed in the changes array
- Use the ui_element information to locate the correct SVG element
- Make precise, surgical modifications to the identified elements
- Preserve all other elements and their properties exactly as they are
- Maintain the existing design structure and layout
- Keep the same visual style and approach
- The SVG should still resemble human hand-drawn wireframes
- Use Comic Sans MS as the font
- Only use gray-scale colors
- Use proper SVG syntax with valid attributes
- All attributes must have proper values
- Path elements should have complete and valid d attributes
- All quotes must be properly closed
- Use standard SVG elements: rect, circle, ellipse, line, polyline, polygon, path, text
- Include proper viewBox attribute on the root svg element
- Use stroke and fill attributes for styling
- Consider user comments and preferences when implementing changes
- Apply changes in a way that aligns with user feedback and design preferences

IMPORTANT:
- Return only the complete revised SVG code. Do not include any explanations or text before or after the code.
- Do not mark the response as SVG using "~~~svg".
- Ensure all SVG attributes are properly formatted and complete.
- Make only the changes specified - do not add, remove, or modify other elements.
- This is a surgical revision, not a complete regeneration.
- When implementing changes, consider how they align with user preferences and feedback.
`,
}

// TaskGeneration suggests one additional task for the stated goal.
var TaskGeneration = &Template{
	Name:     "task generation",
	Required: []string{"context", "user", "goal"},
	Optional: map[string]string{"examples": noExamples, "userComments": noUserComments},
	Text: `SYSTEM:
You are an expert UX designer and product strategist. Generate a single, well-defined task that a user would need to perform to achieve their goal.

ASSISTANT:
Based on the provided context, user information, and goal, generate one clear and actionable task that the user would need to complete.

Context: {context}
User: {user}
Goal: {goal}
Examples: {examples}
User Comments: {userComments}

Requirements:
- Generate exactly ONE task that is directly related to achieving the stated goal
- The task should be specific and actionable
- Consider the user's characteristics and needs
- The task should be appropriate for the given context (mobile/desktop app, etc.)
- If examples are provided, consider them for inspiration but don't limit yourself
- If user comments are provided, consider the feedback and preferences mentioned
- The task should be something that can be accomplished through a user interface

Output Format:
Return only the task description as a single sentence. Do not include any explanations, formatting, or additional text.

Example output format (do not include this in your response):
"Complete the user profile setup by filling out required personal information fields."

IMPORTANT:
- Return only the task description as plain text
- Do not include any JSON formatting, quotes, or special characters
- Do not include any explanations or additional context
- The task should be a single, clear sentence
- Focus on what the user needs to do, not how the interface should look
`,
}
