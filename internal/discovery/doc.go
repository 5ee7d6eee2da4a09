// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

// Package discovery implements the content discovery and recommendation
// engine: popularity and trend scoring with recency decay, preference-based
// personalization, and discovery feed composition.
//
// The engine is stateless and deterministic given its inputs: every public
// operation is a pure function of the candidate lists, preferences,
// timeframe, and location it receives, plus an injected clock and an
// injected randomness source (used only by the feed shuffle). It retains
// nothing between calls and may legitimately be recomputed on every call.
//
// Candidate retrieval and geolocation are external collaborators reached
// through the CandidateSource and Locator interfaces; a collaborator failure
// surfaces as a CandidateRetrievalError so callers can distinguish "no
// results" from "could not compute results".
package discovery
