package benchmark

const dryRunSystemPrompt = `You are role-playing a specific Reddit user for a writing exercise.
Write a comment exactly as this user would: same tone, length, vocabulary, punctuation and
formatting habits. Do NOT add meta-commentary about the role-play. Just write the comment.`

const dryRunPrompt = `You are role-playing Reddit user u/%s. Here is their persona:

%s

They are replying in a thread on r/%s titled:
%q

Write a single comment this user would post in that thread.

Write ONLY the comment text. No explanations, no preamble, no surrounding quotes.`

const compareSystemPrompt = `You are an objective evaluator comparing two Reddit comments written in
the same thread. One is the original written by the actual user, the other is an AI-generated
imitation. Judge how well the imitation matches the original in style, stance, tone and content.
Be honest and specific. Do not inflate scores.`

const comparePrompt = `Compare these two comments posted in the same Reddit thread.

Subreddit: r/%s
Thread title: %q

ORIGINAL comment (written by the actual user):
%s

GENERATED comment (AI imitation attempt):
%s

Evaluate the match on these dimensions:
- Stance: Do they take the same position or make the same kind of point?
- Tone: Is the voice similar (snarky, earnest, helpful, blunt)?
- Length and structure: Similar size, paragraphs, lists or one-liners?
- Phrasing: Similar word choice, slang, punctuation, capitalization?
- Content: Do they draw on similar knowledge or personal experience?

Respond with a single JSON object (no markdown fences, no commentary):

{"score": <number 0-100>, "feedback": "<specific feedback on what matched well and what differed>"}

Scoring guide:
- 0-25: Completely different stance, tone and style
- 26-50: Some topic overlap but clearly a different voice
- 51-70: Similar stance but noticeably different phrasing or tone
- 71-85: Good match with minor differences
- 86-100: Very hard to tell apart`

const refineSystemPrompt = `You refine Reddit user personas so that an AI can imitate the user more
faithfully. You receive the current persona as JSON, a benchmark score and comparison feedback.
Adjust the persona fields to capture the specific habits, phrasings and opinions the current
persona misses, keeping every citation that is still accurate.`

const refinePrompt = `The persona for u/%s scored %.1f/100 on an imitation benchmark.

Current persona (JSON):
%s

Benchmark feedback:
%s

Actual comment comparisons (original vs generated):
%s

Output a refined version of the persona that better captures how this user actually writes
and what they care about. Focus on the areas flagged in the feedback and keep what already works.

Respond with a single JSON object using exactly the same keys as the current persona
(no markdown fences, no commentary). Every value must be a non-empty string.`
